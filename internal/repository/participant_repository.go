package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/theshortlist/shortlist-api/internal/models"
)

// ParticipantRepository is the participant directory for one or more events.
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository constructs the repository.
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantColumns = `id, event_date, event_code, gender, name, phone, email, job, introduction, flirting_secret, green_flag, red_flag, birth_year, created_at, updated_at`

// GetByCode looks a participant up by event and code.
func (r *ParticipantRepository) GetByCode(ctx context.Context, eventDate, eventCode string) (*models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE event_date = $1 AND event_code = $2`, participantColumns)
	var participant models.Participant
	if err := r.db.GetContext(ctx, &participant, query, eventDate, eventCode); err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListByEvent returns all participants of an event in code order.
func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventDate string) ([]models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE event_date = $1 ORDER BY event_code`, participantColumns)
	participants := []models.Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, eventDate); err != nil {
		return nil, err
	}
	return participants, nil
}

// ListByGender returns the participants of one gender in code order.
func (r *ParticipantRepository) ListByGender(ctx context.Context, eventDate string, gender models.Gender) ([]models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE event_date = $1 AND gender = $2 ORDER BY event_code`, participantColumns)
	participants := []models.Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, eventDate, gender); err != nil {
		return nil, err
	}
	return participants, nil
}

// GetByNameAndPhone resolves the login identity lookup. Dashes in the phone
// number are ignored, matching how numbers were captured at registration.
func (r *ParticipantRepository) GetByNameAndPhone(ctx context.Context, name, phone string) (*models.Participant, error) {
	normalized := strings.ReplaceAll(phone, "-", "")
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE name = $1 AND phone = $2 ORDER BY event_date DESC LIMIT 1`, participantColumns)
	var participant models.Participant
	if err := r.db.GetContext(ctx, &participant, query, name, normalized); err != nil {
		return nil, err
	}
	return &participant, nil
}

// Create inserts a participant row.
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = now
	}
	participant.UpdatedAt = now

	const query = `INSERT INTO participants (id, event_date, event_code, gender, name, phone, email, job, introduction, flirting_secret, green_flag, red_flag, birth_year, created_at, updated_at)
		VALUES (:id, :event_date, :event_code, :gender, :name, :phone, :email, :job, :introduction, :flirting_secret, :green_flag, :red_flag, :birth_year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, participant); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// UpdateProfile updates the participant-editable fields only. Identity fields
// (name, phone, email) and the event code are untouchable here.
func (r *ParticipantRepository) UpdateProfile(ctx context.Context, eventDate, eventCode string, job, introduction, flirtingSecret, greenFlag, redFlag string, birthYear int) error {
	const query = `UPDATE participants
		SET job = $1, introduction = $2, flirting_secret = $3, green_flag = $4, red_flag = $5, birth_year = $6, updated_at = $7
		WHERE event_date = $8 AND event_code = $9`
	result, err := r.db.ExecContext(ctx, query, job, introduction, flirtingSecret, greenFlag, redFlag, birthYear, time.Now().UTC(), eventDate, eventCode)
	if err != nil {
		return fmt.Errorf("update participant profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update participant profile: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update participant profile: no participant %s/%s", eventDate, eventCode)
	}
	return nil
}
