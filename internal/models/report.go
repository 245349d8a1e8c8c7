package models

import "time"

// MarkPair holds the internal and external component of a mark.
type MarkPair struct {
	Internal float64 `json:"internal"`
	External float64 `json:"external"`
}

// BookMarks summarises the marks recorded against a book.
type BookMarks struct {
	BookID           string       `json:"bookId"`
	Text             MarkPair     `json:"text"`
	Viva             MarkPair     `json:"viva"`
	VivaContribution float64      `json:"vivaContribution"`
	VivaID           *string      `json:"vivaId,omitempty"`
	Verdict          *Verdict     `json:"verdict,omitempty"`
	Classification   VerdictClass `json:"classification"`
}

// ProposalDefenseRow is one line of the proposal defense report.
type ProposalDefenseRow struct {
	StudentID          string       `db:"student_id" json:"studentId"`
	RegistrationNumber string       `db:"registration_number" json:"registrationNumber"`
	StudentName        string       `db:"student_name" json:"studentName"`
	SchoolName         string       `db:"school_name" json:"schoolName"`
	ProposalID         string       `db:"proposal_id" json:"proposalId"`
	ProposalTitle      string       `db:"proposal_title" json:"proposalTitle"`
	DefenseID          *string      `db:"defense_id" json:"defenseId,omitempty"`
	ScheduledDate      *time.Time   `db:"scheduled_date" json:"scheduledDate,omitempty"`
	Verdict            *Verdict     `db:"verdict" json:"verdict,omitempty"`
	CurrentStatus      *string      `db:"current_status" json:"currentStatus,omitempty"`
	Classification     VerdictClass `db:"-" json:"classification"`
}

// VivaReportRow is one line of the viva report.
type VivaReportRow struct {
	StudentID          string       `db:"student_id" json:"studentId"`
	RegistrationNumber string       `db:"registration_number" json:"registrationNumber"`
	StudentName        string       `db:"student_name" json:"studentName"`
	SchoolName         string       `db:"school_name" json:"schoolName"`
	BookID             string       `db:"book_id" json:"bookId"`
	BookTitle          string       `db:"book_title" json:"bookTitle"`
	InternalTextMark   *float64     `db:"internal_text_mark" json:"internalTextMark,omitempty"`
	ExternalTextMark   *float64     `db:"external_text_mark" json:"externalTextMark,omitempty"`
	VivaID             *string      `db:"viva_id" json:"vivaId,omitempty"`
	VivaDate           *time.Time   `db:"viva_date" json:"vivaDate,omitempty"`
	InternalVivaMark   *float64     `db:"internal_viva_mark" json:"internalVivaMark,omitempty"`
	ExternalVivaMark   *float64     `db:"external_viva_mark" json:"externalVivaMark,omitempty"`
	Verdict            *Verdict     `db:"verdict" json:"verdict,omitempty"`
	VivaContribution   float64      `db:"-" json:"vivaContribution"`
	Classification     VerdictClass `db:"-" json:"classification"`
}

// ReportFilter narrows report queries.
type ReportFilter struct {
	SchoolCode string
	Program    string
}

// SchoolGroup is an ordered bucket of report rows sharing a school.
type SchoolGroup[T any] struct {
	School string `json:"school"`
	Items  []T    `json:"items"`
}
