package selection

import (
	"math/rand/v2"
	"testing"
)

func TestOrientationMap(t *testing.T) {
	t.Run("Stable Across Lookups", func(t *testing.T) {
		deck := makeDeck(78)
		m := NewOrientationMap(deck, DefaultReversalChance, rand.New(rand.NewPCG(1, 2)))

		for _, card := range deck {
			first := m.Reversed(card.ID)
			for i := 0; i < 5; i++ {
				if m.Reversed(card.ID) != first {
					t.Fatalf("orientation for card %d changed between lookups", card.ID)
				}
			}
		}
	})

	t.Run("Roughly Thirty Percent Reversed", func(t *testing.T) {
		deck := makeDeck(78)
		rng := rand.New(rand.NewPCG(7, 9))

		reversed := 0
		const trials = 200
		for i := 0; i < trials; i++ {
			m := NewOrientationMap(deck, DefaultReversalChance, rng)
			for _, card := range deck {
				if m.Reversed(card.ID) {
					reversed++
				}
			}
		}

		ratio := float64(reversed) / float64(trials*len(deck))
		if ratio < 0.25 || ratio > 0.35 {
			t.Errorf("expected ~0.30 reversal rate, got %.3f", ratio)
		}
	})

	t.Run("Zero Chance Falls Back To Default", func(t *testing.T) {
		deck := makeDeck(78)
		m := NewOrientationMap(deck, 0, rand.New(rand.NewPCG(3, 4)))

		any := false
		for _, card := range deck {
			if m.Reversed(card.ID) {
				any = true
				break
			}
		}
		if !any {
			t.Error("expected some reversals with the default chance")
		}
	})
}

func TestShuffleDeck(t *testing.T) {
	t.Run("Is A Permutation", func(t *testing.T) {
		deck := makeDeck(78)
		shuffled := ShuffleDeck(deck, rand.New(rand.NewPCG(5, 6)))

		if len(shuffled) != len(deck) {
			t.Fatalf("expected %d cards, got %d", len(deck), len(shuffled))
		}

		seen := make(map[int]bool, len(shuffled))
		for _, card := range shuffled {
			if seen[card.ID] {
				t.Fatalf("card %d appears twice", card.ID)
			}
			seen[card.ID] = true
		}
		for _, card := range deck {
			if !seen[card.ID] {
				t.Fatalf("card %d missing after shuffle", card.ID)
			}
		}
	})

	t.Run("Does Not Mutate The Input", func(t *testing.T) {
		deck := makeDeck(10)
		ShuffleDeck(deck, rand.New(rand.NewPCG(8, 8)))

		for i, card := range deck {
			if card.ID != i+1 {
				t.Fatalf("input deck mutated at index %d", i)
			}
		}
	})
}

func TestSpreads(t *testing.T) {
	t.Run("Celtic Cross Fill Order Covers Every Position Once", func(t *testing.T) {
		s, err := SpreadByName("celtic_cross")
		if err != nil {
			t.Fatal(err)
		}
		if s.Size() != 10 || !s.Positional {
			t.Fatalf("unexpected spread shape: size=%d positional=%v", s.Size(), s.Positional)
		}

		seen := make(map[int]bool)
		for _, idx := range s.FillOrder {
			if idx < 0 || idx >= s.Size() {
				t.Fatalf("fill order index %d out of range", idx)
			}
			if seen[idx] {
				t.Fatalf("fill order visits position %d twice", idx)
			}
			seen[idx] = true
		}
		if len(seen) != s.Size() {
			t.Errorf("fill order covers %d of %d positions", len(seen), s.Size())
		}
	})

	t.Run("Unknown Spread", func(t *testing.T) {
		if _, err := SpreadByName("horseshoe"); err == nil {
			t.Error("expected an error for an unsupported spread")
		}
	})
}
