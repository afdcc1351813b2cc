package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wyndholt/arcana/internal/formatter"
	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/shared"
)

// BulkExportOpts contains configuration for bulk history exports.
type BulkExportOpts struct {
	Format     string // Export format: json, csv, markdown, text
	OutputDir  string // Base output directory (default: arcana_export_{epoch})
	NumWorkers int    // Concurrent workers (default: 4)
	PageSize   int    // History page size while draining (default: 50)
}

// BulkExport writes every saved reading to its own file, concurrently, and
// finishes with a manifest summarizing the run.
//
// Partial failures are recorded per reading rather than aborting the export.
func (e *ArchiveEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.history == nil {
		return nil, fmt.Errorf("%w: history not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("arcana_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	records, err := e.drainHistory(opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	e.sendProgress(prog, loadingHistoryUpdate(len(records)))

	result := &BulkExportResult{
		TotalReadings:   len(records),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ReadingExportResult, 0, len(records)),
	}

	jobs := make(chan ReadingExportJob, len(records))
	results := make(chan ReadingExportResult, len(records))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	total := len(records)
	for i, record := range records {
		e.sendProgress(prog, exportingReadingUpdate(i+1, total, record.Sequence()))
		jobs <- ReadingExportJob{Record: record}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, total, res.File))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, total, res.ReadingID, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

// drainHistory pages through the repository until the listing runs dry.
func (e *ArchiveEngine) drainHistory(pageSize int) ([]*models.ReadingRecord, error) {
	var all []*models.ReadingRecord
	offset := 0
	for {
		page, err := e.history.List(pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		offset += pageSize
	}
}

// exportWorker is a worker goroutine that exports readings from the jobs channel.
func (e *ArchiveEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ReadingExportJob,
	results chan<- ReadingExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSingleReading(job, opts)
	}
}

// exportSingleReading writes one reading in the requested format.
func exportSingleReading(j ReadingExportJob, opts BulkExportOpts) ReadingExportResult {
	result := ReadingExportResult{
		ReadingID: j.Record.ID(),
		Sequence:  j.Record.Sequence(),
	}

	ext := map[string]string{"markdown": "md", "md": "md", "json": "json", "csv": "csv"}[opts.Format]
	if ext == "" {
		ext = "txt"
	}
	path := filepath.Join(opts.OutputDir, fmt.Sprintf("reading_%04d.%s", j.Record.Sequence(), ext))

	written, err := formatter.WriteExport(j.Record.Reading(), opts.Format, path)
	if err != nil {
		result.Error = fmt.Errorf("export failed: %w", err)
		return result
	}

	result.File = written
	result.Success = true
	return result
}

type exportManifest struct {
	ExportedAt        time.Time             `json:"exported_at"`
	Format            string                `json:"format"`
	TotalReadings     int                   `json:"total_readings"`
	SuccessfulExports int                   `json:"successful_exports"`
	FailedExports     int                   `json:"failed_exports"`
	Files             []exportManifestEntry `json:"files"`
}

type exportManifestEntry struct {
	ReadingID string `json:"reading_id"`
	Sequence  int    `json:"sequence"`
	File      string `json:"file,omitempty"`
	Error     string `json:"error,omitempty"`
}

func writeManifest(result *BulkExportResult, format, path string) error {
	manifest := exportManifest{
		ExportedAt:        time.Now(),
		Format:            format,
		TotalReadings:     result.TotalReadings,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
	}
	for _, res := range result.Results {
		entry := exportManifestEntry{
			ReadingID: res.ReadingID,
			Sequence:  res.Sequence,
			File:      res.File,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		manifest.Files = append(manifest.Files, entry)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
