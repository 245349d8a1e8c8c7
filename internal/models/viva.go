package models

import (
	"time"

	"github.com/lib/pq"
)

// VivaStatus tracks a viva through its lifecycle.
type VivaStatus string

const (
	VivaStatusScheduled  VivaStatus = "SCHEDULED"
	VivaStatusCompleted  VivaStatus = "COMPLETED"
	VivaStatusSuperseded VivaStatus = "SUPERSEDED"
)

// Viva is the book-level oral examination.
type Viva struct {
	ID                 string         `db:"id" json:"id"`
	BookID             string         `db:"book_id" json:"bookId"`
	VivaDate           time.Time      `db:"viva_date" json:"vivaDate"`
	Location           string         `db:"location" json:"location"`
	ChairpersonID      string         `db:"chairperson_id" json:"chairpersonId"`
	MinutesSecretaryID string         `db:"minutes_secretary_id" json:"minutesSecretaryId"`
	PanelistIDs        pq.StringArray `db:"panelist_ids" json:"panelistIds"`
	ReviewerIDs        pq.StringArray `db:"reviewer_ids" json:"reviewerIds"`
	InternalMark       *float64       `db:"internal_mark" json:"internalMark,omitempty"`
	ExternalMark       *float64       `db:"external_mark" json:"externalMark,omitempty"`
	Verdict            *Verdict       `db:"verdict" json:"verdict,omitempty"`
	Status             VivaStatus     `db:"status" json:"status"`
	IsCurrent          bool           `db:"is_current" json:"isCurrent"`
	ScheduledBy        string         `db:"scheduled_by" json:"scheduledBy"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	GradedAt           *time.Time     `db:"graded_at" json:"gradedAt,omitempty"`
	SupersededAt       *time.Time     `db:"superseded_at" json:"supersededAt,omitempty"`
}

// Graded reports whether marks have been recorded.
func (v *Viva) Graded() bool {
	return v != nil && (v.InternalMark != nil || v.ExternalMark != nil || v.Verdict != nil)
}
