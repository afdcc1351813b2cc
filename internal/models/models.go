// package models defines the data model for the arcana reading client
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error              // Create inserts a new model into the database
	Get(id string) (T, error)          // Get retrieves a model by its ID
	Update(model T) error              // Update modifies an existing model in the database
	Delete(id string) error            // Delete removes a model from the database by its ID
	List(limit, offset int) ([]T, error) // List retrieves models in reverse creation order
}

// Card represents one card in the service's catalogue.
//
// Cards are immutable for the lifetime of a session; orientation is tracked
// separately by the selection package.
type Card struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"name_short"`
	Arcana    string `json:"arcana"` // "major" or "minor"
	Suit      string `json:"suit,omitempty"`
	Number    int    `json:"number"`
}

// ChosenCard pairs a card id with the orientation it was dealt in.
type ChosenCard struct {
	ID       int  `json:"id"`
	Reversed bool `json:"reversed"`
}

// ReadingRequest is the payload that opens a streaming reading.
//
// Cards is empty when the server performs its own draw.
type ReadingRequest struct {
	Question  string       `json:"question"`
	Spread    string       `json:"spread"`
	Cards     []ChosenCard `json:"cards,omitempty"`
	Positions []string     `json:"positions,omitempty"`
}

// CardInterpretation is the per-card text produced by the service.
type CardInterpretation struct {
	CardID   int    `json:"card_id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Reversed bool   `json:"reversed"`
	Meaning  string `json:"meaning"`
}

// Reading is a completed reading assembled from the stream's sections.
type Reading struct {
	ReadingID string               `json:"reading_id"`
	Question  string               `json:"question"`
	Spread    string               `json:"spread"`
	Summary   string               `json:"summary"`
	Cards     []CardInterpretation `json:"cards"`
	Overall   string               `json:"overall_reading"`
	Advice    string               `json:"advice"`
	TotalTime float64              `json:"total_time"` // seconds, server-reported
}
