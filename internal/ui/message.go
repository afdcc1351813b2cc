package ui

import (
	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/stream"
)

// deckFetchedMsg delivers the shuffled catalogue fetched during Init.
type deckFetchedMsg struct {
	cards []models.Card
	err   error
}

// streamUpdateMsg carries one folded state snapshot from the session.
type streamUpdateMsg stream.State

// streamDoneMsg signals that the session's update channel closed. err holds
// the Confirm outcome: nil on a clean terminal frame, the transport error
// otherwise.
type streamDoneMsg struct {
	err error
}
