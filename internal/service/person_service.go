package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

type personRepository interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, id string) (*models.Person, error)
	Capabilities(ctx context.Context, personID string) ([]models.PersonCapability, error)
	HasCapability(ctx context.Context, personID string, capability models.Capability, examinerType *models.ExaminerType) (bool, error)
	GrantCapability(ctx context.Context, personID string, capability models.Capability, examinerType *models.ExaminerType, staffOnly bool) (*models.PersonCapability, bool, error)
}

// PersonService manages person identities and the capabilities they hold.
type PersonService struct {
	repo      personRepository
	hooks     *WorkflowHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonService constructs the person service.
func NewPersonService(repo personRepository, hooks *WorkflowHooks, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{repo: repo, hooks: hooks, validator: validate, logger: logger}
}

// CreatePerson registers a staff member or external person.
func (s *PersonService) CreatePerson(ctx context.Context, req dto.CreatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}
	if req.IsStaff && (req.StaffNumber == nil || strings.TrimSpace(*req.StaffNumber) == "") {
		return nil, appErrors.WithField(appErrors.ErrValidation, "staffNumber", "staff members require a staff number")
	}
	person := &models.Person{
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.TrimSpace(req.Email),
		StaffNumber: req.StaffNumber,
		Institution: strings.TrimSpace(req.Institution),
		IsStaff:     req.IsStaff,
	}
	if err := s.repo.Create(ctx, person); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, appErrors.WithField(appErrors.ErrConflict, "staffNumber", "staff number already registered")
		}
		return nil, s.hooks.translate("create person", err)
	}
	return person, nil
}

// GetPerson returns a person with its capabilities.
func (s *PersonService) GetPerson(ctx context.Context, id string) (*dto.PersonResponse, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.hooks.translate("load person", err)
	}
	caps, err := s.repo.Capabilities(ctx, id)
	if err != nil {
		return nil, s.hooks.translate("load capabilities", err)
	}
	if caps == nil {
		caps = []models.PersonCapability{}
	}
	return &dto.PersonResponse{Person: *person, Capabilities: caps}, nil
}

// ConvertStaffToPanelist gives a staff member the panelist capability. Repeated
// calls return the same panelist id.
func (s *PersonService) ConvertStaffToPanelist(ctx context.Context, staffID string) (*models.Panelist, error) {
	capability, created, err := s.repo.GrantCapability(ctx, staffID, models.CapabilityPanelist, nil, true)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, s.hooks.translate("convert staff to panelist", err)
	}
	person, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		return nil, s.hooks.translate("load staff member", err)
	}
	if created {
		s.logger.Info("staff converted to panelist", zap.String("person_id", staffID), zap.String("panelist_id", capability.ID))
	}
	return &models.Panelist{
		ID:        capability.ID,
		PersonID:  person.ID,
		FullName:  person.FullName,
		CreatedAt: capability.CreatedAt,
		Created:   created,
	}, nil
}

// GrantCapability attaches a capability to any person. Granting a held
// capability returns the existing record.
func (s *PersonService) GrantCapability(ctx context.Context, personID string, req dto.GrantCapabilityRequest) (*dto.CapabilityResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid capability payload")
	}
	capability := models.Capability(req.Capability)
	var examinerType *models.ExaminerType
	if capability == models.CapabilityExaminer {
		if req.ExaminerType == nil {
			return nil, appErrors.WithField(appErrors.ErrValidation, "examinerType", "examiner capability requires an examiner type")
		}
		t := models.ExaminerType(*req.ExaminerType)
		examinerType = &t
	}

	record, created, err := s.repo.GrantCapability(ctx, personID, capability, examinerType, false)
	if err != nil {
		return nil, s.hooks.translate("grant capability", err)
	}
	return &dto.CapabilityResult{Capability: *record, Created: created}, nil
}

// requireCapability fails with MissingCapability unless the person exists and
// holds the capability (and examiner type, when given).
func (s *PersonService) requireCapability(ctx context.Context, personID string, capability models.Capability, examinerType *models.ExaminerType) error {
	if _, err := s.repo.FindByID(ctx, personID); err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignee not found")
		}
		return s.hooks.translate("load assignee", err)
	}
	ok, err := s.repo.HasCapability(ctx, personID, capability, examinerType)
	if err != nil {
		return s.hooks.translate("check capability", err)
	}
	if !ok {
		message := "assignee lacks the " + string(capability) + " capability"
		if examinerType != nil {
			message = "assignee is not an " + strings.ToLower(string(*examinerType)) + " examiner"
		}
		return s.hooks.reject(appErrors.Clone(appErrors.ErrMissingCapability, message))
	}
	return nil
}
