package selection

import (
	"math/rand/v2"

	"github.com/wyndholt/arcana/internal/models"
)

// DefaultReversalChance is the probability that a card reads reversed,
// matching the service's own draw behavior.
const DefaultReversalChance = 0.3

// OrientationMap fixes each card's reversed flag for the life of one deck
// snapshot. Selecting, deselecting, and reselecting a card never re-rolls it.
type OrientationMap map[int]bool

// NewOrientationMap draws an independent orientation for every card.
//
// chance <= 0 falls back to [DefaultReversalChance]; rng may be nil for the
// shared source. Call this exactly once per shuffle.
func NewOrientationMap(cards []models.Card, chance float64, rng *rand.Rand) OrientationMap {
	if chance <= 0 {
		chance = DefaultReversalChance
	}

	m := make(OrientationMap, len(cards))
	for _, c := range cards {
		m[c.ID] = randFloat(rng) < chance
	}
	return m
}

// Reversed reports the stored orientation for a card id.
func (m OrientationMap) Reversed(id int) bool {
	return m[id]
}

// ShuffleDeck returns a shuffled copy of the catalogue for display.
//
// The order is presentation only and carries no semantic weight; shuffle once
// per session, not per render.
func ShuffleDeck(cards []models.Card, rng *rand.Rand) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out
}

func randFloat(rng *rand.Rand) float64 {
	if rng != nil {
		return rng.Float64()
	}
	return rand.Float64()
}
