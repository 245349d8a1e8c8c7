package dto

import (
	"time"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

// RegisterStudentRequest registers a student.
type RegisterStudentRequest struct {
	RegistrationNumber string `json:"registrationNumber" validate:"required,max=64"`
	FullName           string `json:"fullName" validate:"required,max=200"`
	Email              string `json:"email" validate:"omitempty,email"`
	Program            string `json:"program" validate:"max=120"`
	SchoolCode         string `json:"schoolCode" validate:"max=32"`
	SchoolName         string `json:"schoolName" validate:"max=200"`
}

// SubmitProposalRequest submits a research proposal for a student.
type SubmitProposalRequest struct {
	Title       string     `json:"title" validate:"required,max=500"`
	Abstract    string     `json:"abstract"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

// SubmitBookRequest submits a dissertation book against a proposal.
type SubmitBookRequest struct {
	Title       string     `json:"title" validate:"required,max=500"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

// StudentResponse returns a student with its status change.
type StudentResponse struct {
	Student models.Student           `json:"student"`
	Status  *models.StatusTransition `json:"status,omitempty"`
}

// ProposalResponse returns a proposal with its status change.
type ProposalResponse struct {
	Proposal models.Proposal          `json:"proposal"`
	Status   *models.StatusTransition `json:"status,omitempty"`
}

// BookResponse returns a book with its status change.
type BookResponse struct {
	Book   models.Book              `json:"book"`
	Status *models.StatusTransition `json:"status,omitempty"`
}
