package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type matchingFinalSelectionRepo interface {
	ListByEvent(ctx context.Context, eventDate string) ([]models.FinalSelectionRecord, error)
}

type matchingMatchRepo interface {
	SaveRun(ctx context.Context, eventDate string, matches []models.MatchRecord) (bool, error)
	RunExists(ctx context.Context, eventDate string) (bool, error)
	ListByEvent(ctx context.Context, eventDate string) ([]models.MatchRecord, error)
}

type matchingAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type matchingParticipantRepo interface {
	ListByEvent(ctx context.Context, eventDate string) ([]models.Participant, error)
}

type matchRunLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string)
}

// SelectionOrder is the comparator fixing the iteration order of the batch
// run. The three passes are greedy and order-sensitive, so the order is an
// explicit input rather than whatever the store returns.
type SelectionOrder func(a, b models.FinalSelectionRecord) bool

// BySelectorCode orders final selections by selector code ascending. This is
// the documented run order.
func BySelectorCode(a, b models.FinalSelectionRecord) bool {
	return a.SelectorCode < b.SelectorCode
}

// MatchingService turns an event's final selections into disjoint pairwise
// matches. One run per event: re-running returns the stored set untouched.
type MatchingService struct {
	finals       matchingFinalSelectionRepo
	matches      matchingMatchRepo
	participants matchingParticipantRepo
	locker       matchRunLocker
	audit        matchingAuditLogger
	order        SelectionOrder
	lockTTL      time.Duration
	logger       *zap.Logger

	mu sync.Mutex
}

// NewMatchingService builds the service. A nil order defaults to
// BySelectorCode; audit may be nil.
func NewMatchingService(finals matchingFinalSelectionRepo, matches matchingMatchRepo, participants matchingParticipantRepo, locker matchRunLocker, audit matchingAuditLogger, order SelectionOrder, lockTTL time.Duration, logger *zap.Logger) *MatchingService {
	if order == nil {
		order = BySelectorCode
	}
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingService{
		finals:       finals,
		matches:      matches,
		participants: participants,
		locker:       locker,
		audit:        audit,
		order:        order,
		lockTTL:      lockTTL,
		logger:       logger,
	}
}

// Run executes the terminal batch run for an event. Single-writer semantics:
// an in-process mutex serialises local callers and a Redis lock fences other
// instances. Completion is tracked by an explicit run marker, so a run that
// produced zero matches still counts as done and re-running returns the
// stored outcome with Replayed set.
func (s *MatchingService) Run(ctx context.Context, eventDate, actor string) (*models.MatchRunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	done, err := s.matches.RunExists(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check run state")
	}
	if done {
		return s.replay(ctx, eventDate)
	}

	if s.locker != nil {
		acquired, err := s.locker.AcquireLock(ctx, "matchrun:"+eventDate, s.lockTTL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire match run lock")
		}
		if !acquired {
			return nil, appErrors.ErrMatchRunInFlight
		}
		defer s.locker.ReleaseLock(ctx, "matchrun:"+eventDate)

		// Another instance may have completed a run while we waited.
		done, err = s.matches.RunExists(ctx, eventDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check run state")
		}
		if done {
			return s.replay(ctx, eventDate)
		}
	}

	finals, err := s.finals.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final selections")
	}
	participants, err := s.participants.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
	}

	matches, matched := s.computeMatches(eventDate, finals)

	saved, err := s.matches.SaveRun(ctx, eventDate, matches)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMatchRunFailure.Code, appErrors.ErrMatchRunFailure.Status, "failed to persist match run")
	}
	if !saved {
		// The marker beat us in; serve the stored outcome.
		return s.replay(ctx, eventDate)
	}

	result := &models.MatchRunResult{
		Matches:   matches,
		Unmatched: unmatchedStats(participants, finals, matched),
	}

	s.recordAudit(ctx, actor, eventDate, result)
	s.logger.Info("match run completed",
		zap.String("event_date", eventDate),
		zap.Int("final_selections", len(finals)),
		zap.Int("matches", len(matches)),
		zap.Int("unmatched", len(result.Unmatched)),
	)

	return result, nil
}

// Results returns the stored outcome of a completed run without writing
// anything. ErrMatchNotFound when no run has happened yet.
func (s *MatchingService) Results(ctx context.Context, eventDate string) (*models.MatchRunResult, error) {
	done, err := s.matches.RunExists(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check run state")
	}
	if !done {
		return nil, appErrors.Clone(appErrors.ErrMatchNotFound, "no match run recorded for this event")
	}
	return s.replay(ctx, eventDate)
}

func (s *MatchingService) recordAudit(ctx context.Context, actor, eventDate string, result *models.MatchRunResult) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]int{
		"matches":   len(result.Matches),
		"unmatched": len(result.Unmatched),
	})
	if err := s.audit.Create(ctx, &models.AuditLog{
		Actor:      actor,
		Action:     models.AuditActionMatchRun,
		Resource:   "event",
		ResourceID: &eventDate,
		Payload:    payload,
	}); err != nil {
		s.logger.Warn("failed to record match run audit log", zap.Error(err))
	}
}

// replay rebuilds a run result from stored match records.
func (s *MatchingService) replay(ctx context.Context, eventDate string) (*models.MatchRunResult, error) {
	stored, err := s.matches.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stored matches")
	}
	finals, err := s.finals.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final selections")
	}
	participants, err := s.participants.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
	}

	matched := make(map[string]bool, len(stored)*2)
	for _, m := range stored {
		matched[m.Person1Code] = true
		matched[m.Person2Code] = true
	}

	return &models.MatchRunResult{
		Matches:   stored,
		Unmatched: unmatchedStats(participants, finals, matched),
		Replayed:  true,
	}, nil
}

// computeMatches runs the three greedy passes over the final selections in
// the service's fixed order and returns the resulting disjoint match set plus
// the set of matched codes.
func (s *MatchingService) computeMatches(eventDate string, finals []models.FinalSelectionRecord) ([]models.MatchRecord, map[string]bool) {
	ordered := make([]models.FinalSelectionRecord, len(finals))
	copy(ordered, finals)
	sort.SliceStable(ordered, func(i, j int) bool { return s.order(ordered[i], ordered[j]) })

	byCode := make(map[string]*models.FinalSelectionRecord, len(ordered))
	for i := range ordered {
		byCode[ordered[i].SelectorCode] = &ordered[i]
	}

	matched := make(map[string]bool)
	matches := []models.MatchRecord{}

	record := func(selector *models.FinalSelectionRecord, partnerCode string, matchType models.MatchType) {
		partner := byCode[partnerCode]
		matches = append(matches, newMatchRecord(eventDate, selector, partner, matchType))
		matched[selector.SelectorCode] = true
		matched[partnerCode] = true
	}

	// Pass 1: mutual first choices.
	for i := range ordered {
		sel := &ordered[i]
		if matched[sel.SelectorCode] {
			continue
		}
		theirs := byCode[sel.FirstChoice]
		if theirs != nil && theirs.FirstChoice == sel.SelectorCode {
			record(sel, sel.FirstChoice, models.MatchTypeDouble1)
		}
	}

	// Pass 2: preference rule. The inclusion check also admits a target who
	// listed the selector second, but a match is only created on the mutual
	// first condition, which pass 1 has already exhausted. Kept as designed;
	// changing it changes the product's matching semantics.
	for i := range ordered {
		sel := &ordered[i]
		if matched[sel.SelectorCode] {
			continue
		}
		if matched[sel.FirstChoice] {
			continue
		}
		theirs := byCode[sel.FirstChoice]
		if theirs == nil {
			continue
		}
		if theirs.FirstChoice == sel.SelectorCode || theirs.Picked(sel.SelectorCode) {
			if theirs.FirstChoice == sel.SelectorCode {
				record(sel, sel.FirstChoice, models.MatchTypePreference)
			}
		}
	}

	// Pass 3: mutual second choices.
	for i := range ordered {
		sel := &ordered[i]
		if matched[sel.SelectorCode] {
			continue
		}
		if sel.SecondChoice == nil {
			continue
		}
		second := *sel.SecondChoice
		if matched[second] {
			continue
		}
		theirs := byCode[second]
		if theirs != nil && theirs.SecondChoice != nil && *theirs.SecondChoice == sel.SelectorCode {
			record(sel, second, models.MatchTypeMutual2nd)
		}
	}

	return matches, matched
}

// newMatchRecord stores the pair in canonical code order. Consent flags
// travel with their owners, not their positions.
func newMatchRecord(eventDate string, a, b *models.FinalSelectionRecord, matchType models.MatchType) models.MatchRecord {
	first, second := a, b
	if second.SelectorCode < first.SelectorCode {
		first, second = second, first
	}
	return models.MatchRecord{
		ID:             uuid.NewString(),
		EventDate:      eventDate,
		Person1Code:    first.SelectorCode,
		Person2Code:    second.SelectorCode,
		MatchType:      matchType,
		Person1Consent: first.ConsentToShare,
		Person2Consent: second.ConsentToShare,
		CreatedAt:      time.Now().UTC(),
	}
}

// unmatchedStats counts, for every unmatched participant, how many final
// selections name them in either slot.
func unmatchedStats(participants []models.Participant, finals []models.FinalSelectionRecord, matched map[string]bool) []models.UnmatchedStat {
	counts := make(map[string]int)
	for _, p := range participants {
		if !matched[p.EventCode] {
			counts[p.EventCode] = 0
		}
	}
	for i := range finals {
		sel := &finals[i]
		if _, ok := counts[sel.FirstChoice]; ok {
			counts[sel.FirstChoice]++
		}
		if sel.SecondChoice != nil {
			if _, ok := counts[*sel.SecondChoice]; ok {
				counts[*sel.SecondChoice]++
			}
		}
	}

	stats := make([]models.UnmatchedStat, 0, len(counts))
	for code, count := range counts {
		stats = append(stats, models.UnmatchedStat{Code: code, SelectedByCount: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Code < stats[j].Code })
	return stats
}
