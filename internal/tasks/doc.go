// Package tasks orchestrates bulk operations over saved readings with real-time progress reporting.
//
// # Core Operations
//
// [ArchiveEngine.BulkExport] writes every saved reading to its own file:
//   - Drains the history repository page by page
//   - Exports readings concurrently through a bounded worker pool
//   - Records per-reading failures instead of aborting the run
//   - Finishes with a JSON manifest summarizing the export
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [ArchiveEngine] depends on [HistorySource], satisfied by
// repositories.ReadingRepository, and renders files through the formatter
// package.
package tasks
