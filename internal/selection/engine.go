package selection

import (
	"context"
	"fmt"
	"slices"

	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/shared"
)

// ConfirmHandler receives the finalized picks: cards in dealing order with
// their orientations, and (for positional spreads) the position keys in the
// same order. An error rolls the engine back to its pre-confirm state.
type ConfirmHandler func(ctx context.Context, cards []models.ChosenCard, positions []string) error

// Engine owns the selection state for one pick.
//
// The deck snapshot and orientation map are read-only inputs; the engine
// never reshuffles or re-rolls them.
type Engine struct {
	spread       Spread
	deck         []models.Card
	byID         map[int]models.Card
	orientations OrientationMap

	order  []int // linear mode: chosen ids in click order
	slots  []int // positional mode: card id per fill rank, -1 when empty
	locked bool
}

// NewEngine creates an engine for the given spread over a shuffled deck.
func NewEngine(spread Spread, deck []models.Card, orientations OrientationMap) *Engine {
	e := &Engine{
		spread:       spread,
		deck:         deck,
		byID:         make(map[int]models.Card, len(deck)),
		orientations: orientations,
	}
	for _, c := range deck {
		e.byID[c.ID] = c
	}
	if spread.Positional {
		e.slots = make([]int, spread.Size())
		for i := range e.slots {
			e.slots[i] = -1
		}
	}
	return e
}

// Spread returns the layout this engine fills.
func (e *Engine) Spread() Spread { return e.spread }

// Deck returns the shuffled snapshot the engine was built over.
func (e *Engine) Deck() []models.Card { return e.deck }

// Orientations returns the session's orientation map.
func (e *Engine) Orientations() OrientationMap { return e.orientations }

// Locked reports whether a confirm is in flight or has succeeded.
func (e *Engine) Locked() bool { return e.locked }

// Count returns how many cards are currently placed.
func (e *Engine) Count() int {
	if !e.spread.Positional {
		return len(e.order)
	}
	n := 0
	for _, id := range e.slots {
		if id >= 0 {
			n++
		}
	}
	return n
}

// IsFull reports whether every slot is taken.
func (e *Engine) IsFull() bool {
	return e.Count() == e.spread.Size()
}

// IsChosen reports whether the card is currently placed anywhere.
func (e *Engine) IsChosen(cardID int) bool {
	if !e.spread.Positional {
		return slices.Contains(e.order, cardID)
	}
	return slices.Contains(e.slots, cardID)
}

// Cursor returns the fill rank of the next open slot, or -1 when full.
// The cursor is always the lowest unfilled slot in dealing order.
func (e *Engine) Cursor() int {
	for rank, id := range e.slots {
		if id < 0 {
			return rank
		}
	}
	return -1
}

// Toggle handles a click on a deck card and reports whether state changed.
//
// Linear mode toggles membership: clicking a chosen card removes it and the
// rest keep their relative order. Positional mode assigns the card to the
// cursor slot; clicks on already placed cards, unknown ids, or a full spread
// are silent no-ops, as is everything while locked.
func (e *Engine) Toggle(cardID int) bool {
	if e.locked {
		return false
	}
	if _, ok := e.byID[cardID]; !ok {
		return false
	}

	if !e.spread.Positional {
		if i := slices.Index(e.order, cardID); i >= 0 {
			e.order = slices.Delete(e.order, i, i+1)
			return true
		}
		if len(e.order) >= e.spread.Size() {
			return false
		}
		e.order = append(e.order, cardID)
		return true
	}

	if e.IsChosen(cardID) {
		return false
	}
	cursor := e.Cursor()
	if cursor < 0 {
		return false
	}
	e.slots[cursor] = cardID
	return true
}

// Vacate handles a click on an occupied slot, identified by its display
// index. The card returns to the pool and the cursor falls back to the
// vacated slot, regardless of how many later slots were filled.
func (e *Engine) Vacate(displayIndex int) bool {
	if e.locked || !e.spread.Positional {
		return false
	}

	rank := slices.Index(e.spread.FillOrder, displayIndex)
	if rank < 0 || e.slots[rank] < 0 {
		return false
	}
	e.slots[rank] = -1
	return true
}

// SlotCard returns the card occupying the slot at a display index.
func (e *Engine) SlotCard(displayIndex int) (models.Card, bool) {
	if !e.spread.Positional {
		return models.Card{}, false
	}
	rank := slices.Index(e.spread.FillOrder, displayIndex)
	if rank < 0 || e.slots[rank] < 0 {
		return models.Card{}, false
	}
	return e.byID[e.slots[rank]], true
}

// Selected returns the chosen card ids in dealing order.
func (e *Engine) Selected() []int {
	if !e.spread.Positional {
		return slices.Clone(e.order)
	}
	var out []int
	for _, id := range e.slots {
		if id >= 0 {
			out = append(out, id)
		}
	}
	return out
}

// Reset clears every selection and slot assignment. The orientation map is
// untouched; it belongs to the deck snapshot, not the selection. No-op while
// locked.
func (e *Engine) Reset() {
	if e.locked {
		return
	}
	e.order = nil
	for i := range e.slots {
		e.slots[i] = -1
	}
}

// Confirm locks the engine and hands the finalized picks to handler.
//
// A handler error unlocks the engine with the selection intact so the user
// can retry without re-picking. On success the engine stays locked for good;
// the host starts a fresh engine for the next reading.
func (e *Engine) Confirm(ctx context.Context, handler ConfirmHandler) error {
	if e.locked {
		return shared.ErrSelectionLocked
	}
	if !e.IsFull() {
		return fmt.Errorf("%w: %d of %d cards placed", shared.ErrSelectionIncomplete, e.Count(), e.spread.Size())
	}

	e.locked = true

	cards, positions := e.payload()
	if err := handler(ctx, cards, positions); err != nil {
		e.locked = false
		return fmt.Errorf("confirm handler: %w", err)
	}
	return nil
}

// payload builds the confirmed picks by walking slots in dealing order and
// reading each card's stored orientation.
func (e *Engine) payload() ([]models.ChosenCard, []string) {
	if !e.spread.Positional {
		cards := make([]models.ChosenCard, len(e.order))
		for i, id := range e.order {
			cards[i] = models.ChosenCard{ID: id, Reversed: e.orientations.Reversed(id)}
		}
		return cards, nil
	}

	cards := make([]models.ChosenCard, 0, len(e.slots))
	positions := make([]string, 0, len(e.slots))
	for rank, id := range e.slots {
		cards = append(cards, models.ChosenCard{ID: id, Reversed: e.orientations.Reversed(id)})
		positions = append(positions, e.spread.Positions[e.spread.FillOrder[rank]].Key)
	}
	return cards, positions
}
