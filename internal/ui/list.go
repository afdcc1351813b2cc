package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/selection"
)

var (
	_ list.Item = spreadItem{}
	_ list.Item = cardItem{}
)

// spreadItem wraps [selection.Spread] to implement [list.Item].
type spreadItem struct {
	spread selection.Spread
}

func (i spreadItem) FilterValue() string { return i.spread.Label }
func (i spreadItem) Title() string       { return i.spread.Label }
func (i spreadItem) Description() string {
	desc := fmt.Sprintf("%d cards", i.spread.Size())
	if i.spread.Positional {
		desc = fmt.Sprintf("%s • fixed layout", desc)
	}
	return desc
}

// cardItem wraps [models.Card] to implement [list.Item]. The chosen callback
// lets the pick view mark cards already placed in the spread.
type cardItem struct {
	card   models.Card
	chosen func(id int) bool
}

func (i cardItem) FilterValue() string { return i.card.Name }

func (i cardItem) Title() string {
	if i.chosen != nil && i.chosen(i.card.ID) {
		return fmt.Sprintf("✦ %s", i.card.Name)
	}
	return i.card.Name
}

func (i cardItem) Description() string {
	if i.card.Arcana == "major" {
		return fmt.Sprintf("Major Arcana • %d", i.card.Number)
	}
	suit := i.card.Suit
	if suit != "" {
		suit = strings.ToUpper(suit[:1]) + suit[1:]
	}
	return fmt.Sprintf("%s • %d", suit, i.card.Number)
}
