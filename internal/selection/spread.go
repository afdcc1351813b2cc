package selection

import (
	"fmt"

	"github.com/wyndholt/arcana/internal/shared"
)

// Position is one named place in a spread layout.
type Position struct {
	Key   string // wire identifier sent to the service
	Label string // display name
}

// Spread describes a reading layout.
//
// Positions are listed in display order. FillOrder holds indexes into
// Positions in dealing order; for positional spreads the two orders differ
// (the Celtic Cross deals the cross before the staff, which is not how it is
// drawn on screen).
type Spread struct {
	Name       string
	Label      string
	Positional bool
	Positions  []Position
	FillOrder  []int
}

// Size returns the number of cards the spread takes.
func (s Spread) Size() int {
	return len(s.Positions)
}

var spreads = []Spread{
	{
		Name:      "single",
		Label:     "Single Card",
		Positions: []Position{{Key: "card", Label: "The Card"}},
		FillOrder: []int{0},
	},
	{
		Name:  "three_card",
		Label: "Past / Present / Future",
		Positions: []Position{
			{Key: "past", Label: "Past"},
			{Key: "present", Label: "Present"},
			{Key: "future", Label: "Future"},
		},
		FillOrder: []int{0, 1, 2},
	},
	{
		Name:       "celtic_cross",
		Label:      "Celtic Cross",
		Positional: true,
		// Display order: the staff column renders after the cross.
		Positions: []Position{
			{Key: "crown", Label: "Crown"},
			{Key: "past", Label: "Past"},
			{Key: "present", Label: "Present"},
			{Key: "future", Label: "Future"},
			{Key: "challenge", Label: "Challenge"},
			{Key: "foundation", Label: "Foundation"},
			{Key: "self", Label: "Self"},
			{Key: "environment", Label: "Environment"},
			{Key: "hopes_fears", Label: "Hopes & Fears"},
			{Key: "outcome", Label: "Outcome"},
		},
		// Dealing order: present, challenge, foundation, past, crown,
		// future, then the staff bottom to top.
		FillOrder: []int{2, 4, 5, 1, 0, 3, 6, 7, 8, 9},
	},
}

// Spreads returns the supported layouts in menu order.
func Spreads() []Spread {
	out := make([]Spread, len(spreads))
	copy(out, spreads)
	return out
}

// SpreadByName looks up a spread by its wire name.
func SpreadByName(name string) (Spread, error) {
	for _, s := range spreads {
		if s.Name == name {
			return s, nil
		}
	}
	return Spread{}, fmt.Errorf("%w: %s", shared.ErrUnknownSpread, name)
}
