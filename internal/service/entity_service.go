package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

type entityRepository interface {
	CreateStudent(ctx context.Context, student *models.Student, initialStatus string) (*models.StatusTransition, error)
	CreateProposal(ctx context.Context, proposal *models.Proposal, initialStatus string) (*models.StatusTransition, error)
	CreateBook(ctx context.Context, book *models.Book, initialStatus string) (*models.StatusTransition, error)
	FindStudent(ctx context.Context, id string) (*models.Student, error)
	FindProposal(ctx context.Context, id string) (*models.Proposal, error)
	FindBook(ctx context.Context, id string) (*models.Book, error)
}

// EntityService registers students and records their proposal and book submissions.
type EntityService struct {
	repo      entityRepository
	hooks     *WorkflowHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEntityService constructs the entity service.
func NewEntityService(repo entityRepository, hooks *WorkflowHooks, validate *validator.Validate, logger *zap.Logger) *EntityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityService{repo: repo, hooks: hooks, validator: validate, logger: logger}
}

// RegisterStudent creates a student in the registered status.
func (s *EntityService) RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest, actor string) (*dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		FullName:           strings.TrimSpace(req.FullName),
		Email:              strings.TrimSpace(req.Email),
		Program:            strings.TrimSpace(req.Program),
		SchoolCode:         strings.TrimSpace(req.SchoolCode),
		SchoolName:         strings.TrimSpace(req.SchoolName),
		CreatedBy:          actor,
	}
	transition, err := s.repo.CreateStudent(ctx, student, models.StatusRegistered)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, appErrors.WithField(appErrors.ErrConflict, "registrationNumber", "registration number already exists")
		}
		return nil, s.hooks.translate("register student", err)
	}
	s.hooks.committed(ctx, transitionEvent(models.EntityStudent, student.ID, actor, transition))
	return &dto.StudentResponse{Student: *student, Status: transition}, nil
}

// SubmitProposal records a proposal for the student in the submitted status.
func (s *EntityService) SubmitProposal(ctx context.Context, studentID string, req dto.SubmitProposalRequest, actor string) (*dto.ProposalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proposal payload")
	}
	proposal := &models.Proposal{
		StudentID:   studentID,
		Title:       strings.TrimSpace(req.Title),
		Abstract:    req.Abstract,
		SubmittedAt: submittedAt(req.SubmittedAt),
		CreatedBy:   actor,
	}
	transition, err := s.repo.CreateProposal(ctx, proposal, models.StatusSubmitted)
	if err != nil {
		return nil, s.hooks.translate("submit proposal", err)
	}
	s.hooks.committed(ctx, transitionEvent(models.EntityProposal, proposal.ID, actor, transition))
	return &dto.ProposalResponse{Proposal: *proposal, Status: transition}, nil
}

// SubmitBook records a dissertation book against a proposal in the submitted status.
func (s *EntityService) SubmitBook(ctx context.Context, proposalID string, req dto.SubmitBookRequest, actor string) (*dto.BookResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}
	book := &models.Book{
		ProposalID:  proposalID,
		Title:       strings.TrimSpace(req.Title),
		SubmittedAt: submittedAt(req.SubmittedAt),
		CreatedBy:   actor,
	}
	transition, err := s.repo.CreateBook(ctx, book, models.StatusSubmitted)
	if err != nil {
		return nil, s.hooks.translate("submit book", err)
	}
	s.hooks.committed(ctx, transitionEvent(models.EntityBook, book.ID, actor, transition))
	return &dto.BookResponse{Book: *book, Status: transition}, nil
}

// GetStudent loads a student.
func (s *EntityService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindStudent(ctx, id)
	if err != nil {
		return nil, s.hooks.translate("load student", err)
	}
	return student, nil
}

// GetProposal loads a proposal.
func (s *EntityService) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	proposal, err := s.repo.FindProposal(ctx, id)
	if err != nil {
		return nil, s.hooks.translate("load proposal", err)
	}
	return proposal, nil
}

// GetBook loads a book.
func (s *EntityService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return nil, s.hooks.translate("load book", err)
	}
	return book, nil
}

func submittedAt(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return value.UTC()
}
