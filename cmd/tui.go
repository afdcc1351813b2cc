package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"github.com/wyndholt/arcana/internal/repositories"
	"github.com/wyndholt/arcana/internal/shared"
	"github.com/wyndholt/arcana/internal/ui"
)

// TUI launches the interactive terminal UI for a streamed reading.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: reading service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/arcana-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var repo *repositories.ReadingRepository
	db, err := r.openDatabase()
	if err != nil {
		fileLogger.Warn("history unavailable, readings will not be saved", "error", err)
	} else {
		defer db.Close()
		repo = repositories.NewReadingRepository(db)
	}

	model := ui.NewModel(ctx, r.service, fileLogger, repo, r.config.Reading, cmd.String("question"))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
