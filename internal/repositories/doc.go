// Package repositories implements local persistence for reading history.
//
// Each repository wraps a *sql.DB and exposes CRUD operations over a single
// table in the SQLite database. Deletes are soft deletes: rows keep their
// data and gain a deleted_at timestamp, and every query filters them out.
//
// Sequence numbers give readings a stable, human-friendly ordering
// independent of their server-assigned ids. They are allocated atomically
// from a per-table counter via NextSequence.
package repositories
