package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wyndholt/arcana/internal/models"
	"github.com/wyndholt/arcana/internal/shared"
)

var _ models.Repository[*models.ReadingRecord] = (*ReadingRepository)(nil)

// ReadingRepository implements [models.Repository] for [models.ReadingRecord] persistence.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository creates a new [ReadingRepository] with the given database connection
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

const readingColumns = "id, sequence, question, spread, summary, cards, overall_reading, advice, total_time, created_at, updated_at, deleted_at"

// Create inserts a completed reading with a generated sequence number.
//
// The id is normally the server-assigned reading id; a fresh one is generated
// when the server didn't supply one.
func (r *ReadingRepository) Create(record *models.ReadingRecord) error {
	sequence, err := NextSequence(r.db, "readings")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	record.SetSequence(sequence)

	if record.ID() == "" {
		record.SetID(shared.GenerateID())
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	reading := record.Reading()
	cards, err := json.Marshal(reading.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}

	query := `
		INSERT INTO readings (id, sequence, question, spread, summary, cards, overall_reading, advice, total_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID(), sequence, reading.Question, reading.Spread, reading.Summary,
		string(cards), reading.Overall, reading.Advice, reading.TotalTime,
		record.CreatedAt(), record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	return nil
}

// Get retrieves a reading by ID, excluding soft-deleted rows
func (r *ReadingRepository) Get(id string) (*models.ReadingRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM readings
		WHERE id = ? AND deleted_at IS NULL
	`, readingColumns)

	record, err := scanReading(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrReadingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reading: %w", err)
	}

	return record, nil
}

// Update modifies an existing reading in the database
func (r *ReadingRepository) Update(record *models.ReadingRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	reading := record.Reading()
	cards, err := json.Marshal(reading.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}

	query := `
		UPDATE readings
		SET question = ?, summary = ?, cards = ?, overall_reading = ?, advice = ?, total_time = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		reading.Question, reading.Summary, string(cards), reading.Overall,
		reading.Advice, reading.TotalTime, now, record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update reading: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrReadingNotFound, record.ID())
	}

	return nil
}

// Delete soft-deletes a reading by ID
func (r *ReadingRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE readings
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete reading: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrReadingNotFound, id)
	}

	return nil
}

// List retrieves readings newest first, excluding soft-deleted rows
func (r *ReadingRepository) List(limit, offset int) ([]*models.ReadingRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM readings
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, sequence DESC
		LIMIT ? OFFSET ?
	`, readingColumns)

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var records []*models.ReadingRecord
	for rows.Next() {
		record, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (*models.ReadingRecord, error) {
	var (
		id        string
		sequence  int
		question  string
		spread    string
		summary   string
		cardsJSON string
		overall   string
		advice    string
		totalTime float64
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &question, &spread, &summary, &cardsJSON, &overall, &advice, &totalTime, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	var cards []models.CardInterpretation
	if err := json.Unmarshal([]byte(cardsJSON), &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards column: %w", err)
	}

	record := models.NewReadingRecord(sequence, models.Reading{
		ReadingID: id,
		Question:  question,
		Spread:    spread,
		Summary:   summary,
		Cards:     cards,
		Overall:   overall,
		Advice:    advice,
		TotalTime: totalTime,
	})
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}
