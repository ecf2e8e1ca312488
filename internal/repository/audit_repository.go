package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/theshortlist/shortlist-api/internal/models"
)

// AuditRepository records operator actions.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit row.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO audit_logs (id, actor, action, resource, resource_id, payload, ip_address, user_agent, created_at)
		VALUES (:id, :actor, :action, :resource, :resource_id, :payload, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByEvent returns the audit trail for one event, newest first.
func (r *AuditRepository) ListByEvent(ctx context.Context, eventDate string) ([]models.AuditLog, error) {
	const query = `SELECT id, actor, action, resource, resource_id, payload, ip_address, user_agent, created_at
		FROM audit_logs WHERE resource_id = $1 ORDER BY created_at DESC`
	logs := []models.AuditLog{}
	if err := r.db.SelectContext(ctx, &logs, query, eventDate); err != nil {
		return nil, err
	}
	return logs, nil
}
