package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type participantRepo interface {
	GetByCode(ctx context.Context, eventDate, eventCode string) (*models.Participant, error)
	ListByGender(ctx context.Context, eventDate string, gender models.Gender) ([]models.Participant, error)
	GetByNameAndPhone(ctx context.Context, name, phone string) (*models.Participant, error)
	Create(ctx context.Context, participant *models.Participant) error
	UpdateProfile(ctx context.Context, eventDate, eventCode string, job, introduction, flirtingSecret, greenFlag, redFlag string, birthYear int) error
}

type participantAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type participantCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateParticipantRequest seeds one attendee onto an event's roster. The
// code must carry the gender prefix the frontends expect ("M3", "W7").
type CreateParticipantRequest struct {
	EventCode string `json:"event_code" validate:"required"`
	Gender    string `json:"gender" validate:"required,oneof=M W"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	BirthYear int    `json:"birth_year" validate:"omitempty,min=1900,max=2020"`
}

// UpdateProfileRequest carries the participant-editable profile fields.
type UpdateProfileRequest struct {
	Job            string `json:"job"`
	Introduction   string `json:"introduction"`
	FlirtingSecret string `json:"flirting_secret"`
	GreenFlag      string `json:"green_flag"`
	RedFlag        string `json:"red_flag"`
	BirthYear      int    `json:"birth_year" validate:"omitempty,min=1900,max=2020"`
}

// LookupRequest identifies a participant by registration identity.
type LookupRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// Candidate is the selector-facing view of an opposite-gender participant.
// Identity and consent-gated fields never appear here.
type Candidate struct {
	EventCode    string `json:"event_code"`
	Introduction string `json:"introduction"`
	GreenFlag    string `json:"green_flag"`
	RedFlag      string `json:"red_flag"`
}

// ParticipantService fronts the participant directory.
type ParticipantService struct {
	repo      participantRepo
	cache     participantCache
	audit     participantAuditLogger
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewParticipantService builds the service. audit may be nil.
func NewParticipantService(repo participantRepo, cache participantCache, audit participantAuditLogger, validate *validator.Validate, cacheTTL time.Duration, logger *zap.Logger) *ParticipantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantService{repo: repo, cache: cache, audit: audit, validator: validate, cacheTTL: cacheTTL, logger: logger}
}

// Create seeds a participant onto an event's roster (host import flow).
// Codes are write-once; a taken code is a conflict.
func (s *ParticipantService) Create(ctx context.Context, eventDate string, req CreateParticipantRequest, actor string) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid participant payload")
	}

	if _, err := s.repo.GetByCode(ctx, eventDate, req.EventCode); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("code %q is already taken for this event", req.EventCode))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check event code")
	}

	participant := &models.Participant{
		EventDate: eventDate,
		EventCode: req.EventCode,
		Gender:    models.Gender(req.Gender),
		Name:      req.Name,
		// Stored without dashes so the name-and-phone lookup matches.
		Phone:     strings.ReplaceAll(req.Phone, "-", ""),
		Email:     req.Email,
		BirthYear: req.BirthYear,
	}
	if err := s.repo.Create(ctx, participant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create participant")
	}

	if s.cache != nil {
		cacheKey := "candidates:" + eventDate + ":" + string(participant.Gender)
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			s.logger.Warn("failed to invalidate candidate cache", zap.Error(err))
		}
	}

	if s.audit != nil {
		payload, _ := json.Marshal(map[string]string{"event_code": req.EventCode, "gender": req.Gender})
		if err := s.audit.Create(ctx, &models.AuditLog{
			Actor:      actor,
			Action:     models.AuditActionParticipantCreate,
			Resource:   "participant",
			ResourceID: &eventDate,
			Payload:    payload,
		}); err != nil {
			s.logger.Warn("failed to record participant audit log", zap.Error(err))
		}
	}

	return participant, nil
}

// GetByCode returns one participant.
func (s *ParticipantService) GetByCode(ctx context.Context, eventDate, eventCode string) (*models.Participant, error) {
	participant, err := s.repo.GetByCode(ctx, eventDate, eventCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrParticipantNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	return participant, nil
}

// Lookup resolves a participant by name and phone. This backs the login flow
// implemented elsewhere; the service only answers the directory question.
func (s *ParticipantService) Lookup(ctx context.Context, req LookupRequest) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lookup payload")
	}
	participant, err := s.repo.GetByNameAndPhone(ctx, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrParticipantNotFound, "no participant with that name and phone")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up participant")
	}
	return participant, nil
}

// Candidates returns the opposite-gender roster a selector may pick from,
// cached per event and gender.
func (s *ParticipantService) Candidates(ctx context.Context, eventDate, selectorCode string) ([]Candidate, error) {
	selector, err := s.GetByCode(ctx, eventDate, selectorCode)
	if err != nil {
		return nil, err
	}

	gender := selector.Gender.Opposite()
	cacheKey := "candidates:" + eventDate + ":" + string(gender)
	if s.cache != nil {
		var cached []Candidate
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	participants, err := s.repo.ListByGender(ctx, eventDate, gender)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list candidates")
	}

	candidates := make([]Candidate, 0, len(participants))
	for i := range participants {
		p := &participants[i]
		candidates = append(candidates, Candidate{
			EventCode:    p.EventCode,
			Introduction: p.Introduction,
			GreenFlag:    p.GreenFlag,
			RedFlag:      p.RedFlag,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, candidates, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache candidates", zap.Error(err))
		}
	}
	return candidates, nil
}

// UpdateProfile updates the editable profile fields and invalidates the
// candidate cache for the participant's gender.
func (s *ParticipantService) UpdateProfile(ctx context.Context, eventDate, eventCode string, req UpdateProfileRequest) (*models.Participant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	participant, err := s.GetByCode(ctx, eventDate, eventCode)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, eventDate, eventCode, req.Job, req.Introduction, req.FlirtingSecret, req.GreenFlag, req.RedFlag, req.BirthYear); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	if s.cache != nil {
		cacheKey := "candidates:" + eventDate + ":" + string(participant.Gender)
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			s.logger.Warn("failed to invalidate candidate cache", zap.Error(err))
		}
	}

	return s.GetByCode(ctx, eventDate, eventCode)
}
