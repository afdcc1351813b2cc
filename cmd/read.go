package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/urfave/cli/v3"
	"github.com/wyndholt/arcana/internal/formatter"
	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/repositories"
	"github.com/wyndholt/arcana/internal/selection"
	"github.com/wyndholt/arcana/internal/shared"
	"github.com/wyndholt/arcana/internal/stream"
)

// Read requests a streamed reading and prints progress as frames arrive.
//
// With --draw the cards are dealt client-side through the selection engine;
// otherwise the service performs its own draw.
func (r *Runner) Read(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: reading service not initialized", shared.ErrServiceUnavailable)
	}

	question := cmd.String("question")
	spreadName := cmd.String("spread")
	if spreadName == "" {
		spreadName = r.config.Reading.DefaultSpread
	}
	spread, err := selection.SpreadByName(spreadName)
	if err != nil {
		return err
	}

	session := stream.NewSession(r.service, r.logger)
	done := make(chan struct{})
	go r.printProgress(session, done)

	var state stream.State
	if cmd.Bool("draw") {
		state, err = r.runLocalDraw(ctx, session, spread, question)
	} else {
		state, err = session.Run(ctx, models.ReadingRequest{Question: question, Spread: spread.Name})
	}
	<-done
	if err != nil {
		return err
	}

	if state.Err != nil {
		return fmt.Errorf("%w: %s during %s: %s", shared.ErrAPIRequest, state.Err.ErrorType, state.Err.Stage, state.Err.Message)
	}

	reading := state.Result(question, spread.Name)

	if !cmd.Bool("no-save") {
		r.saveReading(reading)
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(reading, cmd.String("format"), path)
		if err != nil {
			return err
		}
		r.writePlain("Reading written to %s\n", written)
		return nil
	}

	data, err := formatter.Export(reading, cmd.String("format"))
	if err != nil {
		return err
	}
	r.writePlain("\n")
	r.output.Write(data)
	return nil
}

// runLocalDraw shuffles the catalogue, fills the spread in dealing order and
// confirms the pick into the session.
func (r *Runner) runLocalDraw(ctx context.Context, session *stream.Session, spread selection.Spread, question string) (stream.State, error) {
	deck, err := r.service.ListCards(ctx)
	if err != nil {
		return stream.State{}, err
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	shuffled := selection.ShuffleDeck(deck, rng)
	orientations := selection.NewOrientationMap(shuffled, r.config.Reading.ReversalChance, rng)
	engine := selection.NewEngine(spread, shuffled, orientations)

	for _, card := range shuffled {
		if engine.IsFull() {
			break
		}
		engine.Toggle(card.ID)
	}

	var state stream.State
	err = engine.Confirm(ctx, func(ctx context.Context, cards []models.ChosenCard, positions []string) error {
		req := models.ReadingRequest{
			Question:  question,
			Spread:    spread.Name,
			Cards:     cards,
			Positions: positions,
		}
		var runErr error
		state, runErr = session.Run(ctx, req)
		return runErr
	})
	return state, err
}

// printProgress drains the session's update channel, writing stage changes
// and dealt cards as they arrive.
func (r *Runner) printProgress(session *stream.Session, done chan struct{}) {
	defer close(done)

	var lastStage stream.Stage
	printed := 0
	for st := range session.Updates() {
		if st.Stage != "" && st.Stage != lastStage {
			r.writePlain("→ %s (%.0f%%)\n", st.Stage, st.Progress)
			lastStage = st.Stage
		}
		for _, ev := range st.Drawn[printed:] {
			name := ev.Name
			if ev.Reversed {
				name = fmt.Sprintf("%s (reversed)", name)
			}
			if ev.Position != "" {
				r.writePlain("  %s: %s\n", ev.Position, name)
			} else {
				r.writePlain("  %s\n", name)
			}
			printed++
		}
	}
}

// saveReading writes a finished reading to history, logging instead of
// failing: a save problem should not discard an already-delivered reading.
func (r *Runner) saveReading(reading models.Reading) {
	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("history unavailable, reading not saved", "error", err)
		return
	}
	defer db.Close()

	repo := repositories.NewReadingRepository(db)
	record := models.NewReadingRecord(0, reading)
	if err := repo.Create(record); err != nil {
		r.logger.Warn("failed to save reading", "error", err)
		return
	}
	r.logger.Info("reading saved", "id", record.ID(), "sequence", record.Sequence())
}
