package models

import (
	"strings"
	"time"
)

// EntityType names a trackable entity carrying a status history.
type EntityType string

const (
	EntityStudent  EntityType = "student"
	EntityProposal EntityType = "proposal"
	EntityBook     EntityType = "book"
)

// Valid reports whether the entity type is one of the tracked kinds.
func (t EntityType) Valid() bool {
	switch t {
	case EntityStudent, EntityProposal, EntityBook:
		return true
	}
	return false
}

// ParseEntityType accepts the singular or plural route segment.
func ParseEntityType(raw string) (EntityType, bool) {
	t := EntityType(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "s"))
	return t, t.Valid()
}

// UnknownSchool is the report bucket for entities without a resolvable school.
const UnknownSchool = "Unknown"

// Student is the root tracked entity.
type Student struct {
	ID                 string    `db:"id" json:"id"`
	RegistrationNumber string    `db:"registration_number" json:"registrationNumber"`
	FullName           string    `db:"full_name" json:"fullName"`
	Email              string    `db:"email" json:"email"`
	Program            string    `db:"program" json:"program"`
	SchoolCode         string    `db:"school_code" json:"schoolCode"`
	SchoolName         string    `db:"school_name" json:"schoolName"`
	CreatedBy          string    `db:"created_by" json:"createdBy"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
}

// Proposal belongs to a student.
type Proposal struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"studentId"`
	Title       string    `db:"title" json:"title"`
	Abstract    string    `db:"abstract" json:"abstract"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Book is the dissertation submitted against a proposal.
type Book struct {
	ID          string    `db:"id" json:"id"`
	ProposalID  string    `db:"proposal_id" json:"proposalId"`
	Title       string    `db:"title" json:"title"`
	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
