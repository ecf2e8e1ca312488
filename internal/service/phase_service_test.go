package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type stubPhaseEventRepo struct {
	event      *models.Event
	casResult  bool
	casCalls   int
	lastNew    int
	lastNewSes int
}

func (s *stubPhaseEventRepo) GetByDate(ctx context.Context, date string) (*models.Event, error) {
	if s.event == nil || s.event.Date != date {
		return nil, sql.ErrNoRows
	}
	copied := *s.event
	return &copied, nil
}

func (s *stubPhaseEventRepo) CompareAndSetRound(ctx context.Context, date string, expectedRound, newRound, newSession int) (bool, error) {
	s.casCalls++
	s.lastNew = newRound
	s.lastNewSes = newSession
	if !s.casResult {
		return false, nil
	}
	s.event.CurrentRound = newRound
	s.event.CurrentSession = newSession
	return true, nil
}

type stubMatchRunner struct {
	runs      int
	lastActor string
	result    *models.MatchRunResult
}

func (s *stubMatchRunner) Run(ctx context.Context, eventDate, actor string) (*models.MatchRunResult, error) {
	s.runs++
	s.lastActor = actor
	if s.result != nil {
		return s.result, nil
	}
	return &models.MatchRunResult{}, nil
}

type stubAuditLog struct {
	logs []models.AuditLog
}

func (s *stubAuditLog) Create(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, *log)
	return nil
}

func TestPhaseSetOutOfRange(t *testing.T) {
	svc := NewPhaseService(&stubPhaseEventRepo{}, &stubMatchRunner{}, nil, zap.NewNop())

	_, err := svc.SetPhase(context.Background(), "2026-08-29", 11, "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPhaseOutOfRange.Code, appErrors.FromError(err).Code)

	_, err = svc.SetPhase(context.Background(), "2026-08-29", -1, "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPhaseOutOfRange.Code, appErrors.FromError(err).Code)
}

func TestPhaseSetEventNotFound(t *testing.T) {
	svc := NewPhaseService(&stubPhaseEventRepo{}, &stubMatchRunner{}, nil, zap.NewNop())

	_, err := svc.SetPhase(context.Background(), "2026-08-29", 3, "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEventNotFound.Code, appErrors.FromError(err).Code)
}

func TestPhaseSetMovesAndAudits(t *testing.T) {
	events := &stubPhaseEventRepo{event: &models.Event{Date: "2026-08-29", CurrentRound: 2}, casResult: true}
	audit := &stubAuditLog{}
	svc := NewPhaseService(events, &stubMatchRunner{}, audit, zap.NewNop())

	change, err := svc.SetPhase(context.Background(), "2026-08-29", 3, "host")
	require.NoError(t, err)
	assert.Equal(t, 3, change.Event.CurrentRound)
	assert.Equal(t, 2, change.Event.CurrentSession)
	assert.Nil(t, change.MatchRun)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionPhaseSet, audit.logs[0].Action)
}

func TestPhaseSetBackwardMoveAllowed(t *testing.T) {
	events := &stubPhaseEventRepo{event: &models.Event{Date: "2026-08-29", CurrentRound: 6}, casResult: true}
	svc := NewPhaseService(events, &stubMatchRunner{}, nil, zap.NewNop())

	change, err := svc.SetPhase(context.Background(), "2026-08-29", 5, "host")
	require.NoError(t, err)
	assert.Equal(t, 5, change.Event.CurrentRound)
}

func TestPhaseSetConflict(t *testing.T) {
	events := &stubPhaseEventRepo{event: &models.Event{Date: "2026-08-29", CurrentRound: 2}, casResult: false}
	svc := NewPhaseService(events, &stubMatchRunner{}, nil, zap.NewNop())

	_, err := svc.SetPhase(context.Background(), "2026-08-29", 3, "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPhaseConflict.Code, appErrors.FromError(err).Code)
}

func TestPhaseSetTriggersMatchRunAtFinalPhase(t *testing.T) {
	events := &stubPhaseEventRepo{event: &models.Event{Date: "2026-08-29", CurrentRound: 9}, casResult: true}
	runner := &stubMatchRunner{result: &models.MatchRunResult{Matches: []models.MatchRecord{{Person1Code: "M1", Person2Code: "W1"}}}}
	svc := NewPhaseService(events, runner, nil, zap.NewNop())

	change, err := svc.SetPhase(context.Background(), "2026-08-29", models.MaxPhase, "host")
	require.NoError(t, err)
	assert.Equal(t, 1, runner.runs)
	assert.Equal(t, "host", runner.lastActor)
	require.NotNil(t, change.MatchRun)
	assert.Len(t, change.MatchRun.Matches, 1)
}

func TestPhaseStepClampsAtBounds(t *testing.T) {
	events := &stubPhaseEventRepo{event: &models.Event{Date: "2026-08-29", CurrentRound: 0}, casResult: true}
	svc := NewPhaseService(events, &stubMatchRunner{}, nil, zap.NewNop())

	change, err := svc.StepPhase(context.Background(), "2026-08-29", -1, "host")
	require.NoError(t, err)
	assert.Equal(t, models.MinPhase, change.Event.CurrentRound)
	assert.Equal(t, 0, events.casCalls, "no write when the phase does not change")

	change, err = svc.StepPhase(context.Background(), "2026-08-29", 1, "host")
	require.NoError(t, err)
	assert.Equal(t, 1, change.Event.CurrentRound)
	assert.Equal(t, 1, events.casCalls)
}
