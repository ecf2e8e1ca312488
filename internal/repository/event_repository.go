package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/theshortlist/shortlist-api/internal/models"
)

// EventRepository persists events and their phase counter.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `date, title, venue, chat_link, status, current_round, current_session, created_at, updated_at`

// GetByDate returns the event stored under the given date key.
func (r *EventRepository) GetByDate(ctx context.Context, date string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE date = $1`, eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, date); err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns all events, most recent first.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY date DESC`, eventColumns)
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, err
	}
	return events, nil
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	const query = `INSERT INTO events (date, title, venue, chat_link, status, current_round, current_session, created_at, updated_at)
		VALUES (:date, :title, :venue, :chat_link, :status, :current_round, :current_session, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// CompareAndSetRound moves the phase counter from expectedRound to newRound.
// It returns false without error when another session already moved it.
func (r *EventRepository) CompareAndSetRound(ctx context.Context, date string, expectedRound, newRound, newSession int) (bool, error) {
	const query = `UPDATE events
		SET current_round = $1, current_session = $2, updated_at = $3
		WHERE date = $4 AND current_round = $5`
	result, err := r.db.ExecContext(ctx, query, newRound, newSession, time.Now().UTC(), date, expectedRound)
	if err != nil {
		return false, fmt.Errorf("update event round: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update event round: %w", err)
	}
	return affected == 1, nil
}

// UpdateMeta updates the non-phase attributes of an event.
func (r *EventRepository) UpdateMeta(ctx context.Context, date, title, venue, chatLink, status string) error {
	const query = `UPDATE events
		SET title = $1, venue = $2, chat_link = $3, status = $4, updated_at = $5
		WHERE date = $6`
	result, err := r.db.ExecContext(ctx, query, title, venue, chatLink, status, time.Now().UTC(), date)
	if err != nil {
		return fmt.Errorf("update event meta: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event meta: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update event meta: no event for %s", date)
	}
	return nil
}
