package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by the workflow repositories. Services translate them
// into typed API errors.
var (
	ErrEntityNotFound           = errors.New("entity not found")
	ErrStatusDefinitionNotFound = errors.New("status definition not found")
	ErrStatusDefinitionInactive = errors.New("status definition inactive")
	ErrDuplicateName            = errors.New("duplicate name")
	ErrInconsistentLedger       = errors.New("more than one current record")
	ErrStatusMismatch           = errors.New("current status does not allow operation")
	ErrPersonNotFound           = errors.New("person not found")
	ErrAssignmentNotFound       = errors.New("assignment not found")
	ErrSlotOccupied             = errors.New("role slot already has a current holder")
	ErrDuplicateAssignee        = errors.New("assignee already holds an exclusive sibling slot")
	ErrNotCurrent               = errors.New("record is not current")
	ErrAlreadyGraded            = errors.New("record already graded")
	ErrDefenseNotFound          = errors.New("defense not found")
	ErrVivaNotFound             = errors.New("viva not found")
	ErrConcurrentUpdate         = errors.New("concurrent update detected")
	ErrCapabilityConflict       = errors.New("capability held with a different examiner type")
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
