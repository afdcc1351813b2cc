package models

import (
	"fmt"
	"time"
)

var _ Model = (*ReadingRecord)(nil)

// ReadingRecord is a completed reading saved to local history.
type ReadingRecord struct {
	id        string
	sequence  int
	reading   Reading
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewReadingRecord creates a record for a completed reading.
//
// The id is the server-assigned reading id from the terminal frame; sequence
// is assigned by the repository on insert.
func NewReadingRecord(sequence int, reading Reading) *ReadingRecord {
	now := time.Now()
	return &ReadingRecord{
		id:        reading.ReadingID,
		sequence:  sequence,
		reading:   reading,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *ReadingRecord) ID() string           { return r.id }
func (r *ReadingRecord) Sequence() int        { return r.sequence }
func (r *ReadingRecord) Reading() Reading     { return r.reading }
func (r *ReadingRecord) CreatedAt() time.Time { return r.createdAt }
func (r *ReadingRecord) UpdatedAt() time.Time { return r.updatedAt }
func (r *ReadingRecord) DeletedAt() *time.Time { return r.deletedAt }

func (r *ReadingRecord) SetID(id string)               { r.id = id }
func (r *ReadingRecord) SetSequence(n int)             { r.sequence = n }
func (r *ReadingRecord) SetCreatedAt(t time.Time)      { r.createdAt = t }
func (r *ReadingRecord) SetUpdatedAt(t time.Time)      { r.updatedAt = t }
func (r *ReadingRecord) SetDeletedAt(t *time.Time)     { r.deletedAt = t }

// Validate checks the record before persistence.
func (r *ReadingRecord) Validate() error {
	if r.id == "" {
		return fmt.Errorf("reading record missing id")
	}
	if r.reading.Spread == "" {
		return fmt.Errorf("reading record missing spread")
	}
	return nil
}
