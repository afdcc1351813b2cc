package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wyndholt/arcana/internal/shared"
)

// Cards lists the service's card catalogue.
func (r *Runner) Cards(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: reading service not initialized", shared.ErrServiceUnavailable)
	}

	arcana := strings.ToLower(cmd.String("arcana"))
	if arcana != "" && arcana != "major" && arcana != "minor" {
		return fmt.Errorf("%w: arcana must be major or minor", shared.ErrInvalidFlag)
	}

	r.logger.Info("fetching card catalogue", "service", r.service.Name())

	cards, err := r.service.ListCards(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cards: %w", err)
	}

	if arcana != "" {
		filtered := cards[:0]
		for _, card := range cards {
			if card.Arcana == arcana {
				filtered = append(filtered, card)
			}
		}
		cards = filtered
	}

	if cmd.Bool("json") {
		return r.writeJSON(cards, true)
	}

	r.writePlainHeader(fmt.Sprintf("Card Catalogue (%d)", len(cards)))
	for _, card := range cards {
		if card.Arcana == "major" {
			r.writePlain("%-24s major %d\n", card.Name, card.Number)
		} else {
			r.writePlain("%-24s %s %d\n", card.Name, card.Suit, card.Number)
		}
	}
	return nil
}
