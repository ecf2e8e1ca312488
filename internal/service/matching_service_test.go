package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type stubFinalRepo struct {
	finals []models.FinalSelectionRecord
}

func (s *stubFinalRepo) ListByEvent(ctx context.Context, eventDate string) ([]models.FinalSelectionRecord, error) {
	return s.finals, nil
}

type stubMatchRepo struct {
	runRecorded bool
	stored      []models.MatchRecord
	inserted    []models.MatchRecord
	saveErr     error
}

func (s *stubMatchRepo) SaveRun(ctx context.Context, eventDate string, matches []models.MatchRecord) (bool, error) {
	if s.saveErr != nil {
		return false, s.saveErr
	}
	if s.runRecorded {
		return false, nil
	}
	s.runRecorded = true
	s.inserted = append(s.inserted, matches...)
	s.stored = append(s.stored, matches...)
	return true, nil
}

func (s *stubMatchRepo) RunExists(ctx context.Context, eventDate string) (bool, error) {
	return s.runRecorded, nil
}

func (s *stubMatchRepo) ListByEvent(ctx context.Context, eventDate string) ([]models.MatchRecord, error) {
	return s.stored, nil
}

type stubParticipantListRepo struct {
	participants []models.Participant
}

func (s *stubParticipantListRepo) ListByEvent(ctx context.Context, eventDate string) ([]models.Participant, error) {
	return s.participants, nil
}

type stubLocker struct {
	acquire  bool
	acquired []string
	released []string
}

func (s *stubLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.acquired = append(s.acquired, key)
	return s.acquire, nil
}

func (s *stubLocker) ReleaseLock(ctx context.Context, key string) {
	s.released = append(s.released, key)
}

func strPtr(s string) *string { return &s }

func finalSel(code, first string, second *string, consent bool) models.FinalSelectionRecord {
	return models.FinalSelectionRecord{
		EventDate:      "2026-08-29",
		SelectorCode:   code,
		FirstChoice:    first,
		SecondChoice:   second,
		ConsentToShare: consent,
	}
}

func participants(codes ...string) []models.Participant {
	out := make([]models.Participant, 0, len(codes))
	for _, c := range codes {
		out = append(out, models.Participant{EventDate: "2026-08-29", EventCode: c})
	}
	return out
}

func newTestMatchingService(finals *stubFinalRepo, matches *stubMatchRepo, roster *stubParticipantListRepo, locker *stubLocker) *MatchingService {
	return NewMatchingService(finals, matches, roster, locker, nil, nil, time.Minute, zap.NewNop())
}

func findMatch(t *testing.T, matches []models.MatchRecord, p1, p2 string) models.MatchRecord {
	t.Helper()
	for _, m := range matches {
		if m.Person1Code == p1 && m.Person2Code == p2 {
			return m
		}
	}
	t.Fatalf("no match for pair (%s, %s)", p1, p2)
	return models.MatchRecord{}
}

func TestMatchingRunMutualFirstAndMutualSecond(t *testing.T) {
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", strPtr("W2"), true),
		finalSel("M2", "W1", nil, true),
		finalSel("W1", "M2", nil, false),
		finalSel("W2", "M2", strPtr("M1"), true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{participants: participants("M1", "M2", "W1", "W2")}
	svc := newTestMatchingService(finals, matchRepo, roster, &stubLocker{acquire: true})

	result, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.False(t, result.Replayed)
	assert.Empty(t, result.Unmatched)

	double := findMatch(t, result.Matches, "M2", "W1")
	assert.Equal(t, models.MatchTypeDouble1, double.MatchType)
	assert.True(t, double.Person1Consent)
	assert.False(t, double.Person2Consent)

	second := findMatch(t, result.Matches, "M1", "W2")
	assert.Equal(t, models.MatchTypeMutual2nd, second.MatchType)
}

func TestMatchingRunOneSidedFirstProducesNothing(t *testing.T) {
	// W1 lists M1 second, M1 lists W1 first. The middle pass admits the pair
	// for consideration but only creates on mutual firsts, so nobody matches.
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("W1", "M9", strPtr("M1"), true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{participants: participants("M1", "W1")}
	svc := newTestMatchingService(finals, matchRepo, roster, &stubLocker{acquire: true})

	result, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	assert.Empty(t, result.Matches)

	require.Len(t, result.Unmatched, 2)
	assert.Equal(t, models.UnmatchedStat{Code: "M1", SelectedByCount: 1}, result.Unmatched[0])
	assert.Equal(t, models.UnmatchedStat{Code: "W1", SelectedByCount: 1}, result.Unmatched[1])
}

func TestMatchingRunUnmatchedSelectedByCount(t *testing.T) {
	// W1 is named by both men but picked an absent code herself.
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("M2", "W1", nil, true),
		finalSel("W1", "M9", nil, true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{participants: participants("M1", "M2", "W1")}
	svc := newTestMatchingService(finals, matchRepo, roster, &stubLocker{acquire: true})

	result, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	assert.Empty(t, result.Matches)

	byCode := map[string]int{}
	for _, u := range result.Unmatched {
		byCode[u.Code] = u.SelectedByCount
	}
	assert.Equal(t, 2, byCode["W1"])
	assert.Equal(t, 0, byCode["M1"])
	assert.Equal(t, 0, byCode["M2"])
}

func TestMatchingRunMatchesAreDisjoint(t *testing.T) {
	// W1 is everyone's first choice; she can appear in one match only.
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("M2", "W1", strPtr("W2"), true),
		finalSel("M3", "W1", nil, true),
		finalSel("W1", "M1", nil, true),
		finalSel("W2", "M3", strPtr("M2"), true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{participants: participants("M1", "M2", "M3", "W1", "W2")}
	svc := newTestMatchingService(finals, matchRepo, roster, &stubLocker{acquire: true})

	result, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, m := range result.Matches {
		assert.False(t, seen[m.Person1Code], "%s appears twice", m.Person1Code)
		assert.False(t, seen[m.Person2Code], "%s appears twice", m.Person2Code)
		seen[m.Person1Code] = true
		seen[m.Person2Code] = true
	}

	double := findMatch(t, result.Matches, "M1", "W1")
	assert.Equal(t, models.MatchTypeDouble1, double.MatchType)
	mutual := findMatch(t, result.Matches, "M2", "W2")
	assert.Equal(t, models.MatchTypeMutual2nd, mutual.MatchType)
}

func TestMatchingRunIsIdempotent(t *testing.T) {
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("W1", "M1", nil, true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{participants: participants("M1", "W1")}
	svc := newTestMatchingService(finals, matchRepo, roster, &stubLocker{acquire: true})

	first, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	require.Len(t, first.Matches, 1)
	require.Len(t, matchRepo.inserted, 1)

	second, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Len(t, second.Matches, 1)
	assert.Len(t, matchRepo.inserted, 1, "re-run must not write")
	assert.Equal(t, first.Matches[0].ID, second.Matches[0].ID)
}

func TestMatchingZeroMatchRunIsRecorded(t *testing.T) {
	// A completed run with no mutual picks must still count as done: the
	// results stay readable and a re-run replays instead of recomputing.
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("W1", "M9", strPtr("M1"), true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{participants: participants("M1", "W1")}
	svc := newTestMatchingService(finals, matchRepo, roster, &stubLocker{acquire: true})

	first, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	assert.Empty(t, first.Matches)
	assert.True(t, matchRepo.runRecorded)

	results, err := svc.Results(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.Empty(t, results.Matches)
	assert.True(t, results.Replayed)
	assert.Len(t, results.Unmatched, 2)

	second, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Empty(t, matchRepo.inserted)
}

func TestMatchingRunRecordsAudit(t *testing.T) {
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("W1", "M1", nil, true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{participants: participants("M1", "W1")}
	audit := &stubAuditLog{}
	svc := NewMatchingService(finals, matchRepo, roster, &stubLocker{acquire: true}, audit, nil, time.Minute, zap.NewNop())

	_, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionMatchRun, audit.logs[0].Action)
	assert.Equal(t, "host", audit.logs[0].Actor)
	require.NotNil(t, audit.logs[0].ResourceID)
	assert.Equal(t, "2026-08-29", *audit.logs[0].ResourceID)

	// Replays are reads, not runs; no second audit row.
	_, err = svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	assert.Len(t, audit.logs, 1)
}

func TestMatchingRunLockHeldElsewhere(t *testing.T) {
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("W1", "M1", nil, true),
	}}
	matchRepo := &stubMatchRepo{}
	roster := &stubParticipantListRepo{}
	svc := newTestMatchingService(finals, matchRepo, roster, &stubLocker{acquire: false})

	_, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMatchRunInFlight.Code, appErrors.FromError(err).Code)
	assert.Empty(t, matchRepo.inserted)
}

func TestMatchingResultsWithoutRun(t *testing.T) {
	svc := newTestMatchingService(&stubFinalRepo{}, &stubMatchRepo{}, &stubParticipantListRepo{}, &stubLocker{acquire: true})

	_, err := svc.Results(context.Background(), "2026-08-29")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMatchNotFound.Code, appErrors.FromError(err).Code)
}

func TestMatchingRunReleasesLock(t *testing.T) {
	finals := &stubFinalRepo{finals: []models.FinalSelectionRecord{
		finalSel("M1", "W1", nil, true),
		finalSel("W1", "M1", nil, true),
	}}
	locker := &stubLocker{acquire: true}
	svc := newTestMatchingService(finals, &stubMatchRepo{}, &stubParticipantListRepo{}, locker)

	_, err := svc.Run(context.Background(), "2026-08-29", "host")
	require.NoError(t, err)
	assert.Equal(t, []string{"matchrun:2026-08-29"}, locker.acquired)
	assert.Equal(t, []string{"matchrun:2026-08-29"}, locker.released)
}
