package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/theshortlist/shortlist-api/internal/models"
)

// MatchRepository persists the output of the terminal batch run. A run
// writes a marker row plus its matches in one transaction, so run
// completion is recorded even when the run produced zero matches and a
// failed run never leaves a partial set.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository constructs the repository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, event_date, person1_code, person2_code, match_type, person1_consent, person2_consent, created_at`

// SaveRun stores a completed run atomically: the write-once marker row and
// the match batch commit together. It returns false without writing when a
// marker already exists, so a racing run degrades to a replay.
func (r *MatchRepository) SaveRun(ctx context.Context, eventDate string, matches []models.MatchRecord) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin match run: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const markerQuery = `INSERT INTO match_runs (event_date, ran_at) VALUES ($1, $2) ON CONFLICT (event_date) DO NOTHING`
	result, err := tx.ExecContext(ctx, markerQuery, eventDate, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("record match run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record match run: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	const matchQuery = `INSERT INTO matches (id, event_date, person1_code, person2_code, match_type, person1_consent, person2_consent, created_at)
		VALUES (:id, :event_date, :person1_code, :person2_code, :match_type, :person1_consent, :person2_consent, :created_at)`
	for i := range matches {
		if matches[i].CreatedAt.IsZero() {
			matches[i].CreatedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, matchQuery, &matches[i]); err != nil {
			return false, fmt.Errorf("insert match %s/%s: %w", matches[i].Person1Code, matches[i].Person2Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit match run: %w", err)
	}
	return true, nil
}

// RunExists reports whether the terminal run has completed for the event,
// independent of how many matches it produced.
func (r *MatchRepository) RunExists(ctx context.Context, eventDate string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM match_runs WHERE event_date = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, eventDate); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByEvent returns the stored match set in canonical pair order.
func (r *MatchRepository) ListByEvent(ctx context.Context, eventDate string) ([]models.MatchRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE event_date = $1 ORDER BY person1_code, person2_code`, matchColumns)
	matches := []models.MatchRecord{}
	if err := r.db.SelectContext(ctx, &matches, query, eventDate); err != nil {
		return nil, err
	}
	return matches, nil
}

// GetByMember returns the match containing the given code, or nil when the
// participant went unmatched.
func (r *MatchRepository) GetByMember(ctx context.Context, eventDate, code string) (*models.MatchRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE event_date = $1 AND (person1_code = $2 OR person2_code = $2)`, matchColumns)
	var match models.MatchRecord
	if err := r.db.GetContext(ctx, &match, query, eventDate, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}
