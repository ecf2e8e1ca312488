package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type stubEventRepo struct {
	events      []models.Event
	updateCalls int
}

func (s *stubEventRepo) GetByDate(ctx context.Context, date string) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].Date == date {
			return &s.events[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubEventRepo) List(ctx context.Context) ([]models.Event, error) {
	return s.events, nil
}

func (s *stubEventRepo) Create(ctx context.Context, event *models.Event) error {
	s.events = append(s.events, *event)
	return nil
}

func (s *stubEventRepo) UpdateMeta(ctx context.Context, date, title, venue, chatLink, status string) error {
	s.updateCalls++
	for i := range s.events {
		if s.events[i].Date == date {
			s.events[i].Title = title
			s.events[i].Venue = venue
			s.events[i].ChatLink = chatLink
			s.events[i].Status = status
		}
	}
	return nil
}

type stubEventCache struct {
	entries map[string][]byte
	deletes []string
}

func newStubEventCache() *stubEventCache {
	return &stubEventCache{entries: make(map[string][]byte)}
}

func (s *stubEventCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubEventCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *stubEventCache) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	delete(s.entries, key)
	return nil
}

type stubEventAudit struct {
	logs []models.AuditLog
}

func (s *stubEventAudit) Create(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, *log)
	return nil
}

func (s *stubEventAudit) ListByEvent(ctx context.Context, eventDate string) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for _, l := range s.logs {
		if l.ResourceID != nil && *l.ResourceID == eventDate {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestEventActivePrefersActiveStatus(t *testing.T) {
	repo := &stubEventRepo{events: []models.Event{
		{Date: "2026-09-05", Status: models.EventStatusClosed},
		{Date: "2026-08-29", Status: models.EventStatusActive},
	}}
	svc := NewEventService(repo, nil, nil, validator.New(), time.Minute, zap.NewNop())

	event, err := svc.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", event.Date)
}

func TestEventActiveFallsBackToMostRecent(t *testing.T) {
	repo := &stubEventRepo{events: []models.Event{
		{Date: "2026-09-05", Status: models.EventStatusClosed},
		{Date: "2026-08-29", Status: models.EventStatusClosed},
	}}
	svc := NewEventService(repo, nil, nil, validator.New(), time.Minute, zap.NewNop())

	event, err := svc.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-09-05", event.Date)
}

func TestEventActiveNoEvents(t *testing.T) {
	svc := NewEventService(&stubEventRepo{}, nil, nil, validator.New(), time.Minute, zap.NewNop())

	_, err := svc.Active(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEventNotFound.Code, appErrors.FromError(err).Code)
}

func TestEventGetByDateCaches(t *testing.T) {
	repo := &stubEventRepo{events: []models.Event{{Date: "2026-08-29", Status: models.EventStatusActive}}}
	cache := newStubEventCache()
	svc := NewEventService(repo, cache, nil, validator.New(), time.Minute, zap.NewNop())

	_, err := svc.GetByDate(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.Contains(t, cache.entries, "event:2026-08-29")

	// Served from cache even after the backing row changes.
	repo.events[0].Title = "changed"
	event, err := svc.GetByDate(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.Empty(t, event.Title)
}

func TestEventGetByDateUnknown(t *testing.T) {
	svc := NewEventService(&stubEventRepo{}, nil, nil, validator.New(), time.Minute, zap.NewNop())

	_, err := svc.GetByDate(context.Background(), "2030-01-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEventNotFound.Code, appErrors.FromError(err).Code)
}

func TestEventCreate(t *testing.T) {
	repo := &stubEventRepo{}
	audit := &stubEventAudit{}
	svc := NewEventService(repo, nil, audit, validator.New(), time.Minute, zap.NewNop())

	event, err := svc.Create(context.Background(), CreateEventRequest{
		Date:  "2026-08-29",
		Title: "The Shortlist #12",
		Venue: "Gangnam",
	}, "host")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusActive, event.Status)
	assert.Zero(t, event.CurrentRound)
	require.Len(t, repo.events, 1)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionEventCreate, audit.logs[0].Action)
}

func TestEventCreateDuplicateDate(t *testing.T) {
	repo := &stubEventRepo{events: []models.Event{{Date: "2026-08-29"}}}
	svc := NewEventService(repo, nil, nil, validator.New(), time.Minute, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateEventRequest{Date: "2026-08-29", Title: "x"}, "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.events, 1)
}

func TestEventCreateRejectsBadDate(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewEventService(repo, nil, nil, validator.New(), time.Minute, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateEventRequest{Date: "29-08-2026", Title: "x"}, "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.events)
}

func TestEventUpdateMetaInvalidatesCacheAndAudits(t *testing.T) {
	repo := &stubEventRepo{events: []models.Event{{Date: "2026-08-29", Status: models.EventStatusActive}}}
	cache := newStubEventCache()
	audit := &stubEventAudit{}
	svc := NewEventService(repo, cache, audit, validator.New(), time.Minute, zap.NewNop())

	event, err := svc.UpdateMeta(context.Background(), "2026-08-29", UpdateEventMetaRequest{
		Title:  "The Shortlist #12",
		Venue:  "Gangnam",
		Status: "active",
	}, "host")
	require.NoError(t, err)
	assert.Equal(t, "The Shortlist #12", event.Title)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Contains(t, cache.deletes, "event:2026-08-29")

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionMetaUpdate, audit.logs[0].Action)
}

func TestEventUpdateMetaRejectsBadStatus(t *testing.T) {
	repo := &stubEventRepo{events: []models.Event{{Date: "2026-08-29", Status: models.EventStatusActive}}}
	svc := NewEventService(repo, nil, nil, validator.New(), time.Minute, zap.NewNop())

	_, err := svc.UpdateMeta(context.Background(), "2026-08-29", UpdateEventMetaRequest{
		Title:  "x",
		Status: "archived",
	}, "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.updateCalls)
}

func TestEventAuditTrailFiltersByEvent(t *testing.T) {
	date := "2026-08-29"
	other := "2026-09-05"
	audit := &stubEventAudit{logs: []models.AuditLog{
		{Actor: "host", Action: models.AuditActionPhaseSet, Resource: "event", ResourceID: &date},
		{Actor: "host", Action: models.AuditActionMetaUpdate, Resource: "event", ResourceID: &other},
	}}
	svc := NewEventService(&stubEventRepo{}, nil, audit, validator.New(), time.Minute, zap.NewNop())

	logs, err := svc.AuditTrail(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionPhaseSet, logs[0].Action)
}
