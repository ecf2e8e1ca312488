package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/theshortlist/shortlist-api/internal/models"
)

// ReportRepository tracks asynchronous match report jobs.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, event_date, format, status, file_path, error_text, requested_at, completed_at`

// Create inserts a pending report job.
func (r *ReportRepository) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.RequestedAt.IsZero() {
		job.RequestedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = models.ReportStatusPending
	}

	const query = `INSERT INTO report_jobs (id, event_date, format, status, file_path, error_text, requested_at, completed_at)
		VALUES (:id, :event_date, :format, :status, :file_path, :error_text, :requested_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("insert report job: %w", err)
	}
	return nil
}

// Get returns a report job by id.
func (r *ReportRepository) Get(ctx context.Context, id string) (*models.ReportJob, error) {
	query := fmt.Sprintf(`SELECT %s FROM report_jobs WHERE id = $1`, reportColumns)
	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkProcessing flips a job into the processing state.
func (r *ReportRepository) MarkProcessing(ctx context.Context, id string) error {
	const query = `UPDATE report_jobs SET status = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, models.ReportStatusProcessing, id); err != nil {
		return fmt.Errorf("mark report processing: %w", err)
	}
	return nil
}

// MarkCompleted records a finished render and its file path.
func (r *ReportRepository) MarkCompleted(ctx context.Context, id, filePath string) error {
	const query = `UPDATE report_jobs SET status = $1, file_path = $2, completed_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, models.ReportStatusCompleted, filePath, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark report completed: %w", err)
	}
	return nil
}

// MarkFailed records a failed render and its error text.
func (r *ReportRepository) MarkFailed(ctx context.Context, id, errorText string) error {
	const query = `UPDATE report_jobs SET status = $1, error_text = $2, completed_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, models.ReportStatusFailed, errorText, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark report failed: %w", err)
	}
	return nil
}
