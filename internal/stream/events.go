package stream

import (
	"encoding/json"

	"github.com/wyndholt/arcana/internal/models"
)

// EventType enumerates the frame types the service emits.
//
// Unknown types pass through the assembler and are dropped with a diagnostic
// by the session, never treated as fatal.
type EventType string

const (
	EventStarted         EventType = "started"
	EventProgress        EventType = "progress"
	EventCardDrawn       EventType = "card_drawn"
	EventRAGEnrichment   EventType = "rag_enrichment"
	EventAIGeneration    EventType = "ai_generation"
	EventSectionComplete EventType = "section_complete"
	EventComplete        EventType = "complete"
	EventError           EventType = "error"
)

// Stage is the server-reported phase of an in-progress reading.
//
// The intended order is Initializing through Completed, but the server is the
// authority: the client records whatever stage arrives, repeated or not.
type Stage string

const (
	StageInitializing     Stage = "initializing"
	StageDrawingCards     Stage = "drawing_cards"
	StageEnrichingContext Stage = "enriching_context"
	StageGeneratingAI     Stage = "generating_ai"
	StageFinalizing       Stage = "finalizing"
	StageCompleted        Stage = "completed"
)

// Section names the four independently streamed result sections.
type Section string

const (
	SectionSummary Section = "summary"
	SectionCards   Section = "cards"
	SectionOverall Section = "overall_reading"
	SectionAdvice  Section = "advice"
)

// ProgressEvent reports stage and percent-complete.
type ProgressEvent struct {
	Stage    Stage   `json:"stage"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

// CardDrawnEvent announces one card dealt by the server.
type CardDrawnEvent struct {
	CardID   int     `json:"card_id"`
	Name     string  `json:"name"`
	Position string  `json:"position,omitempty"`
	Reversed bool    `json:"reversed"`
	Progress float64 `json:"progress"`
}

// SectionCompleteEvent delivers one finished result section.
//
// Data's shape depends on Section, so it stays raw until the fold step.
type SectionCompleteEvent struct {
	Section  Section         `json:"section"`
	Data     json.RawMessage `json:"data"`
	Progress float64         `json:"progress"`
}

// summary / overall_reading / advice payloads carry a single string field;
// cards carries the interpretation list.
type summaryData struct {
	Summary string `json:"summary"`
}

type cardsData struct {
	Cards []models.CardInterpretation `json:"cards"`
}

type overallData struct {
	Overall string `json:"overall_reading"`
}

type adviceData struct {
	Advice string `json:"advice"`
}

// CompleteEvent is the success terminal frame.
type CompleteEvent struct {
	ReadingID string  `json:"reading_id"`
	TotalTime float64 `json:"total_time"`
}

// ErrorEvent is the failure terminal frame.
type ErrorEvent struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
	Stage     Stage  `json:"stage,omitempty"`
}
