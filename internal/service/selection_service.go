package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
)

type selectionLedger interface {
	Insert(ctx context.Context, record *models.SelectionRecord) (bool, error)
	Exists(ctx context.Context, eventDate, selectorCode string, sessionNumber int) (bool, error)
	ListBySelector(ctx context.Context, eventDate, selectorCode string) ([]models.SelectionRecord, error)
	ListByEvent(ctx context.Context, eventDate string) ([]models.SelectionRecord, error)
	ListBySession(ctx context.Context, eventDate string, sessionNumber int) ([]models.SelectionRecord, error)
}

type finalSelectionLedger interface {
	Insert(ctx context.Context, record *models.FinalSelectionRecord) (bool, error)
	Exists(ctx context.Context, eventDate, selectorCode string) (bool, error)
	Get(ctx context.Context, eventDate, selectorCode string) (*models.FinalSelectionRecord, error)
	ListByEvent(ctx context.Context, eventDate string) ([]models.FinalSelectionRecord, error)
}

type selectionParticipantRepo interface {
	GetByCode(ctx context.Context, eventDate, eventCode string) (*models.Participant, error)
	ListByEvent(ctx context.Context, eventDate string) ([]models.Participant, error)
}

type selectionEventRepo interface {
	GetByDate(ctx context.Context, date string) (*models.Event, error)
}

// ChoiceInput is one submitted choice of a per-round selection.
type ChoiceInput struct {
	TargetCode    string `json:"target_code" validate:"required"`
	RequestedInfo string `json:"requested_info" validate:"required"`
}

// SubmitSelectionRequest is the payload for a per-round submission.
type SubmitSelectionRequest struct {
	SelectorCode  string       `json:"selector_code" validate:"required"`
	SessionNumber int          `json:"session_number" validate:"required,min=1,max=4"`
	FirstChoice   ChoiceInput  `json:"first_choice" validate:"required"`
	SecondChoice  *ChoiceInput `json:"second_choice,omitempty"`
}

// SubmitFinalSelectionRequest is the payload for the terminal submission.
type SubmitFinalSelectionRequest struct {
	SelectorCode   string  `json:"selector_code" validate:"required"`
	FirstChoice    string  `json:"first_choice" validate:"required"`
	SecondChoice   *string `json:"second_choice,omitempty"`
	ConsentToShare bool    `json:"consent_to_share"`
}

// SelectionService fronts the two write-once preference ledgers. All
// referential validation (opposite gender, same event, distinct targets)
// happens here before the atomic conditional insert.
type SelectionService struct {
	selections   selectionLedger
	finals       finalSelectionLedger
	participants selectionParticipantRepo
	events       selectionEventRepo
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewSelectionService builds the service.
func NewSelectionService(selections selectionLedger, finals finalSelectionLedger, participants selectionParticipantRepo, events selectionEventRepo, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{
		selections:   selections,
		finals:       finals,
		participants: participants,
		events:       events,
		validator:    validate,
		logger:       logger,
	}
}

// SubmitRound validates and stores one per-round selection. Submissions are
// accepted regardless of the current phase; only result reads are gated.
func (s *SelectionService) SubmitRound(ctx context.Context, eventDate string, req SubmitSelectionRequest) (*models.SelectionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidSelection.Code, appErrors.ErrInvalidSelection.Status, "invalid selection payload")
	}
	if !models.RequestedInfoField(req.FirstChoice.RequestedInfo).Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidSelection, fmt.Sprintf("unknown requested info field %q", req.FirstChoice.RequestedInfo))
	}

	var secondTarget *string
	if req.SecondChoice != nil {
		if req.SecondChoice.RequestedInfo == "" {
			return nil, appErrors.Clone(appErrors.ErrInvalidSelection, "second choice requires a requested info field")
		}
		if !models.RequestedInfoField(req.SecondChoice.RequestedInfo).Valid() {
			return nil, appErrors.Clone(appErrors.ErrInvalidSelection, fmt.Sprintf("unknown requested info field %q", req.SecondChoice.RequestedInfo))
		}
		secondTarget = &req.SecondChoice.TargetCode
	}

	if err := s.validateTargets(ctx, eventDate, req.SelectorCode, req.FirstChoice.TargetCode, secondTarget); err != nil {
		return nil, err
	}

	record := &models.SelectionRecord{
		EventDate:     eventDate,
		SelectorCode:  req.SelectorCode,
		SessionNumber: req.SessionNumber,
		FirstCode:     req.FirstChoice.TargetCode,
		FirstInfo:     req.FirstChoice.RequestedInfo,
	}
	if req.SecondChoice != nil {
		record.SecondCode = &req.SecondChoice.TargetCode
		record.SecondInfo = &req.SecondChoice.RequestedInfo
	}

	inserted, err := s.selections.Insert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store selection")
	}
	if !inserted {
		return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "selection already submitted for this session")
	}
	return record, nil
}

// SubmitFinal validates and stores the terminal selection.
func (s *SelectionService) SubmitFinal(ctx context.Context, eventDate string, req SubmitFinalSelectionRequest) (*models.FinalSelectionRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidSelection.Code, appErrors.ErrInvalidSelection.Status, "invalid final selection payload")
	}

	if err := s.validateTargets(ctx, eventDate, req.SelectorCode, req.FirstChoice, req.SecondChoice); err != nil {
		return nil, err
	}

	record := &models.FinalSelectionRecord{
		EventDate:      eventDate,
		SelectorCode:   req.SelectorCode,
		FirstChoice:    req.FirstChoice,
		SecondChoice:   req.SecondChoice,
		ConsentToShare: req.ConsentToShare,
	}

	inserted, err := s.finals.Insert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store final selection")
	}
	if !inserted {
		return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "final selection already submitted")
	}
	return record, nil
}

// HasSubmitted answers the submission check for sessions 1-4 and the final
// session.
func (s *SelectionService) HasSubmitted(ctx context.Context, eventDate, selectorCode string, sessionNumber int) (bool, error) {
	switch {
	case sessionNumber >= models.MinSession && sessionNumber <= models.MaxSession:
		return s.selections.Exists(ctx, eventDate, selectorCode, sessionNumber)
	case sessionNumber == models.FinalSession:
		return s.finals.Exists(ctx, eventDate, selectorCode)
	}
	return false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid session number %d", sessionNumber))
}

// MySelections returns one participant's round selections ordered by session.
func (s *SelectionService) MySelections(ctx context.Context, eventDate, selectorCode string) ([]models.SelectionRecord, error) {
	records, err := s.selections.ListBySelector(ctx, eventDate, selectorCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load selections")
	}
	return records, nil
}

// MyFinalSelection returns the participant's final selection, or nil.
func (s *SelectionService) MyFinalSelection(ctx context.Context, eventDate, selectorCode string) (*models.FinalSelectionRecord, error) {
	record, err := s.finals.Get(ctx, eventDate, selectorCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final selection")
	}
	return record, nil
}

// AdmirerView is the viewer-facing projection of one selection that named
// them: who picked, at which rank, and what they asked to know. The
// selector's other choice never leaks through here.
type AdmirerView struct {
	SelectorCode  string `json:"selector_code"`
	Rank          int    `json:"rank"`
	RequestedInfo string `json:"requested_info"`
}

// PickedBy returns the selections of one session that name the given code,
// projected to the viewer-facing fields. The session's results must be open
// at the current phase.
func (s *SelectionService) PickedBy(ctx context.Context, eventDate, code string, sessionNumber int) ([]AdmirerView, error) {
	if sessionNumber < models.MinSession || sessionNumber > models.MaxSession {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid session number %d", sessionNumber))
	}

	event, err := s.events.GetByDate(ctx, eventDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEventNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if !ResultsVisible(sessionNumber, event.CurrentRound) {
		return nil, appErrors.Clone(appErrors.ErrResultsNotVisible, fmt.Sprintf("session %d results are not open yet", sessionNumber))
	}

	records, err := s.selections.ListBySession(ctx, eventDate, sessionNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load selections")
	}

	picked := []AdmirerView{}
	for i := range records {
		rec := &records[i]
		switch {
		case rec.FirstCode == code:
			picked = append(picked, AdmirerView{SelectorCode: rec.SelectorCode, Rank: 1, RequestedInfo: rec.FirstInfo})
		case rec.SecondCode != nil && *rec.SecondCode == code:
			info := ""
			if rec.SecondInfo != nil {
				info = *rec.SecondInfo
			}
			picked = append(picked, AdmirerView{SelectorCode: rec.SelectorCode, Rank: 2, RequestedInfo: info})
		}
	}
	return picked, nil
}

// EventSelections returns every round selection of an event (host view).
func (s *SelectionService) EventSelections(ctx context.Context, eventDate string) ([]models.SelectionRecord, error) {
	records, err := s.selections.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load selections")
	}
	return records, nil
}

// EventFinalSelections returns every final selection of an event (host view).
func (s *SelectionService) EventFinalSelections(ctx context.Context, eventDate string) ([]models.FinalSelectionRecord, error) {
	records, err := s.finals.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final selections")
	}
	return records, nil
}

// SubmissionStatus maps every participant code of an event to whether they
// submitted for the given session (1-4 round ledger, 5 final ledger).
func (s *SelectionService) SubmissionStatus(ctx context.Context, eventDate string, sessionNumber int) (map[string]bool, error) {
	participants, err := s.participants.ListByEvent(ctx, eventDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participants")
	}

	submitted := make(map[string]bool)
	switch {
	case sessionNumber >= models.MinSession && sessionNumber <= models.MaxSession:
		records, err := s.selections.ListBySession(ctx, eventDate, sessionNumber)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load selections")
		}
		for i := range records {
			submitted[records[i].SelectorCode] = true
		}
	case sessionNumber == models.FinalSession:
		records, err := s.finals.ListByEvent(ctx, eventDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final selections")
		}
		for i := range records {
			submitted[records[i].SelectorCode] = true
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid session number %d", sessionNumber))
	}

	status := make(map[string]bool, len(participants))
	for i := range participants {
		status[participants[i].EventCode] = submitted[participants[i].EventCode]
	}
	return status, nil
}

// validateTargets enforces the referential rules shared by both ledgers: the
// selector exists, the first choice is an opposite-gender participant of the
// same event, and the optional second choice is distinct and equally valid.
func (s *SelectionService) validateTargets(ctx context.Context, eventDate, selectorCode, firstTarget string, secondTarget *string) error {
	selector, err := s.lookup(ctx, eventDate, selectorCode)
	if err != nil {
		return err
	}

	first, err := s.lookup(ctx, eventDate, firstTarget)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidSelection, fmt.Sprintf("first choice %q is not part of this event", firstTarget))
	}
	if first.Gender != selector.Gender.Opposite() {
		return appErrors.Clone(appErrors.ErrInvalidSelection, "first choice must be an opposite-gender participant")
	}

	if secondTarget == nil {
		return nil
	}
	if *secondTarget == firstTarget {
		return appErrors.Clone(appErrors.ErrInvalidSelection, "second choice must differ from first choice")
	}
	second, err := s.lookup(ctx, eventDate, *secondTarget)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidSelection, fmt.Sprintf("second choice %q is not part of this event", *secondTarget))
	}
	if second.Gender != selector.Gender.Opposite() {
		return appErrors.Clone(appErrors.ErrInvalidSelection, "second choice must be an opposite-gender participant")
	}
	return nil
}

func (s *SelectionService) lookup(ctx context.Context, eventDate, code string) (*models.Participant, error) {
	participant, err := s.participants.GetByCode(ctx, eventDate, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrParticipantNotFound, fmt.Sprintf("participant %q not found", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	return participant, nil
}
