package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type phaseEventRepo interface {
	GetByDate(ctx context.Context, date string) (*models.Event, error)
	CompareAndSetRound(ctx context.Context, date string, expectedRound, newRound, newSession int) (bool, error)
}

type phaseMatchRunner interface {
	Run(ctx context.Context, eventDate, actor string) (*models.MatchRunResult, error)
}

type phaseAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// PhaseChange reports the outcome of a phase move. MatchRun is non-nil only
// when the move reached the final-result phase and triggered the batch run.
type PhaseChange struct {
	Event    *models.Event          `json:"event"`
	MatchRun *models.MatchRunResult `json:"match_run,omitempty"`
}

// PhaseService owns the event phase counter. Moves are operator-driven, may
// go forward or backward, and use compare-and-set against the stored round so
// two racing operator sessions cannot silently overwrite each other.
type PhaseService struct {
	events   phaseEventRepo
	matching phaseMatchRunner
	audit    phaseAuditLogger
	logger   *zap.Logger
}

// NewPhaseService builds the service.
func NewPhaseService(events phaseEventRepo, matching phaseMatchRunner, audit phaseAuditLogger, logger *zap.Logger) *PhaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhaseService{events: events, matching: matching, audit: audit, logger: logger}
}

// Table returns the fixed phase table.
func (s *PhaseService) Table() []models.PhaseInfo {
	return models.PhaseTable()
}

// SetPhase moves an event to newPhase. Reaching the final-result phase
// triggers the matching batch run; the run itself is idempotent, so an
// operator bouncing between 9 and 10 cannot duplicate matches.
func (s *PhaseService) SetPhase(ctx context.Context, eventDate string, newPhase int, actor string) (*PhaseChange, error) {
	if !models.ValidPhase(newPhase) {
		return nil, appErrors.Clone(appErrors.ErrPhaseOutOfRange, fmt.Sprintf("phase %d is out of range", newPhase))
	}

	event, err := s.events.GetByDate(ctx, eventDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEventNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	info, _ := models.PhaseInfoFor(newPhase)

	if event.CurrentRound != newPhase {
		moved, err := s.events.CompareAndSetRound(ctx, eventDate, event.CurrentRound, newPhase, info.Session)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update phase")
		}
		if !moved {
			return nil, appErrors.Clone(appErrors.ErrPhaseConflict, "phase was changed by another host session")
		}
	}

	previousRound := event.CurrentRound
	event.CurrentRound = newPhase
	event.CurrentSession = info.Session

	s.recordAudit(ctx, actor, eventDate, previousRound, newPhase)
	s.logger.Info("phase changed",
		zap.String("event_date", eventDate),
		zap.Int("from", previousRound),
		zap.Int("to", newPhase),
		zap.String("kind", string(info.Kind)),
	)

	change := &PhaseChange{Event: event}
	if newPhase == models.MaxPhase {
		run, err := s.matching.Run(ctx, eventDate, actor)
		if err != nil {
			return nil, err
		}
		change.MatchRun = run
	}

	return change, nil
}

// StepPhase moves the phase by delta, clamped to the valid range.
func (s *PhaseService) StepPhase(ctx context.Context, eventDate string, delta int, actor string) (*PhaseChange, error) {
	event, err := s.events.GetByDate(ctx, eventDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEventNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	return s.SetPhase(ctx, eventDate, models.ClampPhase(event.CurrentRound+delta), actor)
}

func (s *PhaseService) recordAudit(ctx context.Context, actor, eventDate string, from, to int) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]int{"from": from, "to": to})
	if err := s.audit.Create(ctx, &models.AuditLog{
		Actor:      actor,
		Action:     models.AuditActionPhaseSet,
		Resource:   "event",
		ResourceID: &eventDate,
		Payload:    payload,
	}); err != nil {
		s.logger.Warn("failed to record phase audit log", zap.Error(err))
	}
}
