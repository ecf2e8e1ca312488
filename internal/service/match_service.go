package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type matchLookupRepo interface {
	GetByMember(ctx context.Context, eventDate, code string) (*models.MatchRecord, error)
}

type matchEventRepo interface {
	GetByDate(ctx context.Context, date string) (*models.Event, error)
}

type matchParticipantRepo interface {
	GetByCode(ctx context.Context, eventDate, eventCode string) (*models.Participant, error)
}

// MatchService resolves a participant's own match and applies the disclosure
// rule: the partner's contact card is revealed only when the partner
// consented. The viewer's own consent never gates what they see.
type MatchService struct {
	matches      matchLookupRepo
	events       matchEventRepo
	participants matchParticipantRepo
	logger       *zap.Logger
}

// NewMatchService builds the service.
func NewMatchService(matches matchLookupRepo, events matchEventRepo, participants matchParticipantRepo, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{matches: matches, events: events, participants: participants, logger: logger}
}

// MyMatch returns the viewer's match with partner disclosure applied. Final
// results must be open at the current phase.
func (s *MatchService) MyMatch(ctx context.Context, eventDate, viewerCode string) (*models.MatchView, error) {
	event, err := s.events.GetByDate(ctx, eventDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEventNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if !FinalResultsVisible(event.CurrentRound) {
		return nil, appErrors.Clone(appErrors.ErrResultsNotVisible, "final results are not open yet")
	}

	if _, err := s.participants.GetByCode(ctx, eventDate, viewerCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrParticipantNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}

	match, err := s.matches.GetByMember(ctx, eventDate, viewerCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match")
	}
	if match == nil {
		return nil, appErrors.Clone(appErrors.ErrMatchNotFound, "no match recorded for this participant")
	}

	return s.Disclose(ctx, match, viewerCode)
}

// Disclose builds the viewer-facing projection of a match. When the partner
// withheld consent the view carries the match type only; the host mediates
// the introduction offline.
func (s *MatchService) Disclose(ctx context.Context, match *models.MatchRecord, viewerCode string) (*models.MatchView, error) {
	partnerCode, partnerConsent, ok := match.PartnerOf(viewerCode)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "viewer is not part of this match")
	}

	view := &models.MatchView{
		MatchType:      match.MatchType,
		PartnerCode:    partnerCode,
		PartnerConsent: partnerConsent,
	}
	if !partnerConsent {
		return view, nil
	}

	partner, err := s.participants.GetByCode(ctx, match.EventDate, partnerCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrParticipantNotFound, "matched partner not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load matched partner")
	}
	card := partner.Card()
	view.Partner = &card
	return view, nil
}
