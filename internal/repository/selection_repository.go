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

// SelectionRepository is the write-once ledger for per-round selections. The
// ledger key is (event_date, selector_code, session_number); the duplicate
// check rides on the primary key so check-and-insert is a single atomic
// statement.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository constructs the repository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

const selectionColumns = `event_date, selector_code, session_number, first_code, first_info, second_code, second_info, submitted_at`

// Insert persists a selection exactly once per key. The bool result is false
// when the key already existed; the stored record is never overwritten.
func (r *SelectionRepository) Insert(ctx context.Context, record *models.SelectionRecord) (bool, error) {
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now().UTC()
	}

	const query = `INSERT INTO selections (event_date, selector_code, session_number, first_code, first_info, second_code, second_info, submitted_at)
		VALUES (:event_date, :selector_code, :session_number, :first_code, :first_info, :second_code, :second_info, :submitted_at)
		ON CONFLICT (event_date, selector_code, session_number) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return false, fmt.Errorf("insert selection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert selection: %w", err)
	}
	return affected == 1, nil
}

// Get returns the record under the ledger key, or nil when absent.
func (r *SelectionRepository) Get(ctx context.Context, eventDate, selectorCode string, sessionNumber int) (*models.SelectionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM selections WHERE event_date = $1 AND selector_code = $2 AND session_number = $3`, selectionColumns)
	var record models.SelectionRecord
	if err := r.db.GetContext(ctx, &record, query, eventDate, selectorCode, sessionNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Exists reports whether a record is stored under the ledger key.
func (r *SelectionRepository) Exists(ctx context.Context, eventDate, selectorCode string, sessionNumber int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM selections WHERE event_date = $1 AND selector_code = $2 AND session_number = $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, eventDate, selectorCode, sessionNumber); err != nil {
		return false, err
	}
	return exists, nil
}

// ListBySelector returns all of one participant's round selections.
func (r *SelectionRepository) ListBySelector(ctx context.Context, eventDate, selectorCode string) ([]models.SelectionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM selections WHERE event_date = $1 AND selector_code = $2 ORDER BY session_number`, selectionColumns)
	records := []models.SelectionRecord{}
	if err := r.db.SelectContext(ctx, &records, query, eventDate, selectorCode); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByEvent returns every round selection of an event.
func (r *SelectionRepository) ListByEvent(ctx context.Context, eventDate string) ([]models.SelectionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM selections WHERE event_date = $1 ORDER BY session_number, selector_code`, selectionColumns)
	records := []models.SelectionRecord{}
	if err := r.db.SelectContext(ctx, &records, query, eventDate); err != nil {
		return nil, err
	}
	return records, nil
}

// ListBySession returns all selections of one session of an event.
func (r *SelectionRepository) ListBySession(ctx context.Context, eventDate string, sessionNumber int) ([]models.SelectionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM selections WHERE event_date = $1 AND session_number = $2 ORDER BY selector_code`, selectionColumns)
	records := []models.SelectionRecord{}
	if err := r.db.SelectContext(ctx, &records, query, eventDate, sessionNumber); err != nil {
		return nil, err
	}
	return records, nil
}
