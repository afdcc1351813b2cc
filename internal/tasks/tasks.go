// package tasks implements long-running operations over saved readings.
//
// The core abstraction is ArchiveEngine, which exports reading history to
// files in bulk. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"github.com/wyndholt/arcana/internal/models"
)

// HistorySource defines the read side of reading history the engine needs.
// Implemented by repositories.ReadingRepository.
type HistorySource interface {
	List(limit, offset int) ([]*models.ReadingRecord, error)
}

// ReadingExportJob is one reading queued for export.
type ReadingExportJob struct {
	Record *models.ReadingRecord
}

// ReadingExportResult represents the outcome of exporting a single reading.
type ReadingExportResult struct {
	ReadingID string
	Sequence  int
	File      string
	Success   bool
	Error     error
}

// BulkExportResult summarizes a bulk history export.
type BulkExportResult struct {
	TotalReadings     int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []ReadingExportResult
}

// ArchiveEngine exports reading history in bulk.
type ArchiveEngine struct {
	history HistorySource
}

// NewArchiveEngine creates an ArchiveEngine over the given history source.
func NewArchiveEngine(history HistorySource) *ArchiveEngine {
	return &ArchiveEngine{history: history}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ArchiveEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
