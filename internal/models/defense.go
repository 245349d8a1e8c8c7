package models

import (
	"time"

	"github.com/lib/pq"
)

// Verdict is the outcome recorded against a defense or viva.
type Verdict string

const (
	VerdictPass                     Verdict = "PASS"
	VerdictPassWithMinorCorrections Verdict = "PASS_WITH_MINOR_CORRECTIONS"
	VerdictPassWithMajorCorrections Verdict = "PASS_WITH_MAJOR_CORRECTIONS"
	VerdictRefer                    Verdict = "REFER"
	VerdictFail                     Verdict = "FAIL"
)

// Valid reports whether the verdict is one of the accepted values.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictPass, VerdictPassWithMinorCorrections, VerdictPassWithMajorCorrections, VerdictRefer, VerdictFail:
		return true
	}
	return false
}

// Passing reports whether the verdict counts as a pass.
func (v Verdict) Passing() bool {
	switch v {
	case VerdictPass, VerdictPassWithMinorCorrections, VerdictPassWithMajorCorrections:
		return true
	}
	return false
}

// VerdictClass is the report-level classification of a verdict.
type VerdictClass string

const (
	VerdictClassPassed    VerdictClass = "PASSED"
	VerdictClassFailed    VerdictClass = "FAILED"
	VerdictClassNotGraded VerdictClass = "NOT_GRADED"
)

// Defense is a proposal-level oral evaluation event.
type Defense struct {
	ID                string         `db:"id" json:"id"`
	ProposalID        string         `db:"proposal_id" json:"proposalId"`
	ScheduledDate     time.Time      `db:"scheduled_date" json:"scheduledDate"`
	Venue             string         `db:"venue" json:"venue"`
	PanelistIDs       pq.StringArray `db:"panelist_ids" json:"panelistIds"`
	Verdict           *Verdict       `db:"verdict" json:"verdict,omitempty"`
	VerdictRecordedAt *time.Time     `db:"verdict_recorded_at" json:"verdictRecordedAt,omitempty"`
	IsCurrent         bool           `db:"is_current" json:"isCurrent"`
	ScheduledBy       string         `db:"scheduled_by" json:"scheduledBy"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	SupersededAt      *time.Time     `db:"superseded_at" json:"supersededAt,omitempty"`
}
