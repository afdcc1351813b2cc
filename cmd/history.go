package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/wyndholt/arcana/internal/formatter"
	"github.com/wyndholt/arcana/internal/repositories"
	"github.com/wyndholt/arcana/internal/shared"
	"github.com/wyndholt/arcana/internal/tasks"
)

// HistoryList prints saved readings, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewReadingRepository(db)
	records, err := repo.List(int(cmd.Int("limit")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		readings := make([]any, len(records))
		for i, record := range records {
			readings[i] = record.Reading()
		}
		return r.writeJSON(readings, true)
	}

	if len(records) == 0 {
		r.writePlain("No saved readings\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Saved Readings (%d)", len(records)))
	for _, record := range records {
		reading := record.Reading()
		question := reading.Question
		if question == "" {
			question = "(no question)"
		}
		r.writePlain("#%-4d %s  %s  %s  %s\n",
			record.Sequence(),
			record.ID(),
			record.CreatedAt().Format("2006-01-02 15:04"),
			reading.Spread,
			question,
		)
	}
	return nil
}

// HistoryShow renders one saved reading in the requested format.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: reading id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewReadingRepository(db)
	record, err := repo.Get(id)
	if err != nil {
		return err
	}

	data, err := formatter.Export(record.Reading(), cmd.String("format"))
	if err != nil {
		return err
	}
	r.output.Write(data)
	return nil
}

// HistoryExport writes every saved reading to files via the archive engine,
// echoing progress as readings land on disk.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewReadingRepository(db)
	engine := tasks.NewArchiveEngine(repo)

	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.BulkExport(ctx, prog, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("Exported %d of %d readings to %s", result.SuccessfulExports, result.TotalReadings, result.OutputDirectory)
	return nil
}

// HistoryDelete removes a saved reading.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: reading id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewReadingRepository(db)
	if err := repo.Delete(id); err != nil {
		return err
	}

	r.writePlain("Deleted reading %s\n", id)
	return nil
}
