package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/selection"
	"github.com/wyndholt/arcana/internal/services"
	"github.com/wyndholt/arcana/internal/shared"
	tu "github.com/wyndholt/arcana/internal/testing"
)

func testDeck() []models.Card {
	return []models.Card{
		{ID: 0, Name: "The Fool", Arcana: "major"},
		{ID: 1, Name: "The Magician", Arcana: "major"},
		{ID: 2, Name: "The High Priestess", Arcana: "major"},
		{ID: 3, Name: "The Empress", Arcana: "major"},
	}
}

// newTestModel builds a model parked on the confirm view with a full
// single-card selection.
func newTestModel(t *testing.T, svc services.Service) *Model {
	t.Helper()

	m := NewModel(context.Background(), svc, shared.NewLogger(io.Discard), nil, shared.ReadingConfig{ReversalChance: 0.3}, "Will it land?")
	m.deck = testDeck()

	spread, err := selection.SpreadByName("single")
	if err != nil {
		t.Fatalf("failed to resolve spread: %v", err)
	}
	m.beginSelection(spread)
	if !m.engine.Toggle(m.deck[0].ID) {
		t.Fatal("failed to select a card")
	}
	m.view = ConfirmView
	return m
}

// driveStream feeds the model's stream commands back through Update until the
// session drains, returning the final done message.
func driveStream(t *testing.T, m *Model, cmd tea.Cmd) streamDoneMsg {
	t.Helper()

	for i := 0; i < 100; i++ {
		if cmd == nil {
			t.Fatal("stream command chain ended early")
		}
		msg := cmd()
		if done, ok := msg.(streamDoneMsg); ok {
			return done
		}
		_, cmd = m.Update(msg)
	}
	t.Fatal("stream never finished")
	return streamDoneMsg{}
}

func TestStreamOutcome(t *testing.T) {
	t.Run("Transport Failure Reaches The Result View", func(t *testing.T) {
		svc := &tu.MockService{Err: errors.New("connection refused")}
		m := newTestModel(t, svc)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
		if m.view != StreamView {
			t.Fatalf("expected stream view after confirm, got %v", m.view)
		}

		done := driveStream(t, m, cmd)
		if !errors.Is(done.err, shared.ErrConnectionFailed) {
			t.Fatalf("expected ErrConnectionFailed outcome, got %v", done.err)
		}

		m.Update(done)
		if m.view != ResultView {
			t.Fatalf("expected result view, got %v", m.view)
		}
		if m.confirmErr == nil {
			t.Fatal("expected the stream error folded into the model")
		}
		if m.engine.Locked() {
			t.Error("expected the selection unlocked for retry after a failed stream")
		}

		view := m.View()
		if !strings.Contains(view, "Stream failed") {
			t.Errorf("expected the connection error rendered, got:\n%s", view)
		}
		if strings.Contains(view, "Reading cancelled") {
			t.Errorf("transport failure rendered as cancellation:\n%s", view)
		}
	})

	t.Run("Completed Stream Renders The Reading", func(t *testing.T) {
		body := "event: started\ndata: {}\n" +
			"event: section_complete\ndata: {\"section\":\"summary\",\"data\":{\"summary\":\"A fresh start.\"},\"progress\":60}\n" +
			"event: complete\ndata: {\"reading_id\":\"r-9\",\"total_time\":1.5}\n"
		svc := &tu.MockService{StreamBody: body}
		m := newTestModel(t, svc)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
		done := driveStream(t, m, cmd)
		if done.err != nil {
			t.Fatalf("expected a clean terminal, got %v", done.err)
		}

		m.Update(done)
		if m.view != ResultView {
			t.Fatalf("expected result view, got %v", m.view)
		}
		if m.reading == nil || m.reading.ReadingID != "r-9" {
			t.Fatalf("expected completed reading r-9, got %+v", m.reading)
		}
		if !m.engine.Locked() {
			t.Error("expected the selection locked after a successful reading")
		}

		view := m.View()
		if !strings.Contains(view, "Reading Complete") {
			t.Errorf("expected completion banner, got:\n%s", view)
		}
		if !strings.Contains(view, "A fresh start.") {
			t.Errorf("expected summary rendered, got:\n%s", view)
		}
	})
}
