package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type eventRepo interface {
	GetByDate(ctx context.Context, date string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	UpdateMeta(ctx context.Context, date, title, venue, chatLink, status string) error
}

type eventCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type eventAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListByEvent(ctx context.Context, eventDate string) ([]models.AuditLog, error)
}

// CreateEventRequest sets up a new matchmaking night. Events start in the
// waiting phase regardless of input.
type CreateEventRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Title    string `json:"title" validate:"required"`
	Venue    string `json:"venue"`
	ChatLink string `json:"chat_link"`
}

// UpdateEventMetaRequest carries the host-editable event attributes. The
// phase counter is deliberately absent; only the phase service touches it.
type UpdateEventMetaRequest struct {
	Title    string `json:"title" validate:"required"`
	Venue    string `json:"venue"`
	ChatLink string `json:"chat_link"`
	Status   string `json:"status" validate:"required,oneof=active closed"`
}

// EventService reads event metadata with a short cache in front, since every
// participant screen polls the current phase.
type EventService struct {
	repo      eventRepo
	cache     eventCache
	audit     eventAuditLogger
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewEventService builds the service.
func NewEventService(repo eventRepo, cache eventCache, audit eventAuditLogger, validate *validator.Validate, cacheTTL time.Duration, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, cache: cache, audit: audit, validator: validate, cacheTTL: cacheTTL, logger: logger}
}

// Active returns the event with active status, falling back to the most
// recent one when no event is marked active.
func (s *EventService) Active(ctx context.Context) (*models.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	for i := range events {
		if events[i].Status == models.EventStatusActive {
			return &events[i], nil
		}
	}
	if len(events) > 0 {
		return &events[0], nil
	}
	return nil, appErrors.Clone(appErrors.ErrEventNotFound, "no events configured")
}

// GetByDate returns one event, served from cache when fresh.
func (s *EventService) GetByDate(ctx context.Context, date string) (*models.Event, error) {
	cacheKey := "event:" + date
	if s.cache != nil {
		var cached models.Event
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEventNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, event, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache event", zap.Error(err))
		}
	}
	return event, nil
}

// Create registers a new event at phase zero.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest, actor string) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	if _, err := s.repo.GetByDate(ctx, req.Date); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("an event already exists for %s", req.Date))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check event date")
	}

	event := &models.Event{
		Date:     req.Date,
		Title:    req.Title,
		Venue:    req.Venue,
		ChatLink: req.ChatLink,
		Status:   models.EventStatusActive,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	if s.audit != nil {
		payload, _ := json.Marshal(req)
		if err := s.audit.Create(ctx, &models.AuditLog{
			Actor:      actor,
			Action:     models.AuditActionEventCreate,
			Resource:   "event",
			ResourceID: &event.Date,
			Payload:    payload,
		}); err != nil {
			s.logger.Warn("failed to record event audit log", zap.Error(err))
		}
	}

	return event, nil
}

// List returns every event, most recent first (host view).
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// UpdateMeta updates the non-phase attributes of an event and invalidates the
// cached copy.
func (s *EventService) UpdateMeta(ctx context.Context, date string, req UpdateEventMetaRequest, actor string) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	if _, err := s.repo.GetByDate(ctx, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEventNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	if err := s.repo.UpdateMeta(ctx, date, req.Title, req.Venue, req.ChatLink, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, "event:"+date); err != nil {
			s.logger.Warn("failed to invalidate event cache", zap.Error(err))
		}
	}

	if s.audit != nil {
		payload, _ := json.Marshal(req)
		if err := s.audit.Create(ctx, &models.AuditLog{
			Actor:      actor,
			Action:     models.AuditActionMetaUpdate,
			Resource:   "event",
			ResourceID: &date,
			Payload:    payload,
		}); err != nil {
			s.logger.Warn("failed to record event audit log", zap.Error(err))
		}
	}

	return s.repo.GetByDate(ctx, date)
}

// AuditTrail returns the operator action log of an event, newest first.
func (s *EventService) AuditTrail(ctx context.Context, date string) ([]models.AuditLog, error) {
	if s.audit == nil {
		return []models.AuditLog{}, nil
	}
	logs, err := s.audit.ListByEvent(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit trail")
	}
	return logs, nil
}
