// Package models defines domain entities and persistence interfaces for the arcana reading client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing remote service data
//   - [Card] : One card in the catalogue, immutable once fetched
//   - [ChosenCard] : A card id paired with its orientation, as sent to the service
//   - [ReadingRequest] : The payload that opens a streaming reading
//   - [CardInterpretation] : Per-card text produced by the service
//   - [Reading] : A completed reading with all four sections
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [ReadingRecord] : A saved reading in local history
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps, validation, and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
