package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrDuplicateSubmission  = New("DUPLICATE_SUBMISSION", http.StatusConflict, "selection already submitted")
	ErrInvalidSelection     = New("INVALID_SELECTION", http.StatusBadRequest, "invalid selection input")
	ErrEventNotFound        = New("EVENT_NOT_FOUND", http.StatusNotFound, "event not found")
	ErrParticipantNotFound  = New("PARTICIPANT_NOT_FOUND", http.StatusNotFound, "participant not found")
	ErrMatchNotFound        = New("MATCH_NOT_FOUND", http.StatusNotFound, "no match recorded")
	ErrMatchRunFailure      = New("MATCH_RUN_FAILURE", http.StatusInternalServerError, "match run failed")
	ErrMatchRunInFlight     = New("MATCH_RUN_IN_FLIGHT", http.StatusConflict, "match run already in progress")
	ErrResultsNotVisible    = New("RESULTS_NOT_VISIBLE", http.StatusForbidden, "results are not open yet")
	ErrInvalidCredentials   = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid host code")
	ErrUnauthorized         = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden            = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound             = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict             = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation           = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal             = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss            = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrReportsDisabled      = New("REPORTS_DISABLED", http.StatusNotFound, "report generation is disabled")
	ErrPhaseOutOfRange      = New("PHASE_OUT_OF_RANGE", http.StatusBadRequest, "phase must be between 0 and 10")
	ErrPhaseConflict        = New("PHASE_CONFLICT", http.StatusConflict, "phase was changed by another session")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
