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
	Field   string `json:"field,omitempty"`
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

// Is matches errors sharing the same code so clones compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Generic errors.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Workflow precondition errors. They are surfaced verbatim and are not retryable
// until the prerequisite state is corrected.
var (
	ErrInactiveDefinition      = New("INACTIVE_STATUS_DEFINITION", http.StatusConflict, "status definition is inactive")
	ErrDuplicateRoleAssignment = New("DUPLICATE_ROLE_ASSIGNMENT", http.StatusConflict, "assignee already holds a conflicting role")
	ErrNotCurrentAssignment    = New("NOT_CURRENT_ASSIGNMENT", http.StatusConflict, "assignee is not the current holder of the role slot")
	ErrMissingCapability       = New("MISSING_CAPABILITY", http.StatusConflict, "assignee lacks the capability required by the role slot")
	ErrCapabilityConflict      = New("CAPABILITY_CONFLICT", http.StatusConflict, "person already holds the capability with a different examiner type")
	ErrAlreadyGraded           = New("ALREADY_GRADED", http.StatusConflict, "record already graded")
	ErrInvalidGradeRange       = New("INVALID_GRADE_RANGE", http.StatusConflict, "grade outside the permitted range")
	ErrProposalNotReady        = New("PROPOSAL_NOT_READY", http.StatusConflict, "proposal has no current submitted status")
	ErrMissingInternalExaminer = New("MISSING_INTERNAL_EXAMINER", http.StatusConflict, "book has no current internal examiner")
	ErrMissingExternalExaminer = New("MISSING_EXTERNAL_EXAMINER", http.StatusConflict, "book has no current external examiner")
	ErrInvalidChairperson      = New("INVALID_CHAIRPERSON", http.StatusConflict, "chairperson must be the current internal examiner")
	ErrInvalidReviewer         = New("INVALID_REVIEWER", http.StatusConflict, "reviewers must be current external examiners of the book")
	ErrNoPanelists             = New("NO_PANELISTS", http.StatusConflict, "at least one panelist is required")
	ErrInvalidEscalation       = New("INVALID_ESCALATION_ORDER", http.StatusBadRequest, "escalation thresholds must satisfy critical < warning < expected < delay")
)

// ErrConcurrentUpdate signals a lost-update race; callers may retry after re-reading state.
var ErrConcurrentUpdate = New("CONCURRENT_UPDATE", http.StatusConflict, "record changed concurrently, reload and retry")

// ErrInconsistentLedger indicates more than one current record was found. The
// client only ever sees the generic internal error.
var ErrInconsistentLedger = New("INCONSISTENT_LEDGER", http.StatusInternalServerError, "internal server error")

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

// WithField returns a copy of the error pointing at the offending request field.
func WithField(err *Error, field, message string) *Error {
	clone := Clone(err, message)
	if clone != nil {
		clone.Field = field
	}
	return clone
}
