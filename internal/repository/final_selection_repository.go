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

// FinalSelectionRepository is the write-once ledger for terminal-round
// selections, keyed by (event_date, selector_code).
type FinalSelectionRepository struct {
	db *sqlx.DB
}

// NewFinalSelectionRepository constructs the repository.
func NewFinalSelectionRepository(db *sqlx.DB) *FinalSelectionRepository {
	return &FinalSelectionRepository{db: db}
}

const finalSelectionColumns = `event_date, selector_code, first_choice, second_choice, consent_to_share, submitted_at`

// Insert persists a final selection exactly once per key. The bool result is
// false when the participant already submitted.
func (r *FinalSelectionRepository) Insert(ctx context.Context, record *models.FinalSelectionRecord) (bool, error) {
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now().UTC()
	}

	const query = `INSERT INTO final_selections (event_date, selector_code, first_choice, second_choice, consent_to_share, submitted_at)
		VALUES (:event_date, :selector_code, :first_choice, :second_choice, :consent_to_share, :submitted_at)
		ON CONFLICT (event_date, selector_code) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return false, fmt.Errorf("insert final selection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert final selection: %w", err)
	}
	return affected == 1, nil
}

// Get returns the record under the ledger key, or nil when absent.
func (r *FinalSelectionRepository) Get(ctx context.Context, eventDate, selectorCode string) (*models.FinalSelectionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM final_selections WHERE event_date = $1 AND selector_code = $2`, finalSelectionColumns)
	var record models.FinalSelectionRecord
	if err := r.db.GetContext(ctx, &record, query, eventDate, selectorCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Exists reports whether the participant already submitted a final selection.
func (r *FinalSelectionRepository) Exists(ctx context.Context, eventDate, selectorCode string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM final_selections WHERE event_date = $1 AND selector_code = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, eventDate, selectorCode); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByEvent returns every final selection of an event. The matching engine
// re-sorts these; the query order is not load-bearing.
func (r *FinalSelectionRepository) ListByEvent(ctx context.Context, eventDate string) ([]models.FinalSelectionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM final_selections WHERE event_date = $1 ORDER BY selector_code`, finalSelectionColumns)
	records := []models.FinalSelectionRecord{}
	if err := r.db.SelectContext(ctx, &records, query, eventDate); err != nil {
		return nil, err
	}
	return records, nil
}
