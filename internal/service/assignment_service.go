package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	"github.com/noah-isme/thesis-workflow-api/pkg/config"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
	"github.com/noah-isme/thesis-workflow-api/pkg/events"
)

type assignmentRepository interface {
	Assign(ctx context.Context, params repository.AssignParams) (*repository.AssignResult, error)
	Change(ctx context.Context, params repository.ChangeParams) (*repository.ChangeResult, error)
	RecordGrade(ctx context.Context, assignmentID string, grade float64) (*models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

type capabilityChecker interface {
	requireCapability(ctx context.Context, personID string, capability models.Capability, examinerType *models.ExaminerType) error
}

// examinersAssignedPromotion moves a submitted book forward once both examiner
// slots hold a current assignee.
var examinersAssignedPromotion = repository.SlotPromotion{
	Slots:      []models.RoleSlot{models.SlotBookInternalExaminer, models.SlotBookExternalExaminer},
	FromStatus: models.StatusSubmitted,
	ToStatus:   models.StatusExaminersAssigned,
}

// AssignmentService manages supervisor and examiner role slots.
type AssignmentService struct {
	repo         assignmentRepository
	capabilities capabilityChecker
	hooks        *WorkflowHooks
	grading      config.GradingConfig
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAssignmentService constructs the assignment registry service.
func NewAssignmentService(
	repo assignmentRepository,
	capabilities capabilityChecker,
	hooks *WorkflowHooks,
	grading config.GradingConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:         repo,
		capabilities: capabilities,
		hooks:        hooks,
		grading:      grading,
		validator:    validate,
		logger:       logger,
	}
}

// Assign fills an empty role slot. Occupied slots must go through Change.
func (s *AssignmentService) Assign(ctx context.Context, req dto.AssignRequest, actor string) (*dto.AssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	slot, err := resolveSlot(req.RoleSlot)
	if err != nil {
		return nil, err
	}
	if err := s.capabilities.requireCapability(ctx, req.AssigneeID, slot.Capability, slot.ExaminerType); err != nil {
		return nil, err
	}

	params := repository.AssignParams{
		Slot:       slot,
		TargetID:   req.TargetID,
		AssigneeID: req.AssigneeID,
		Metadata:   req.Metadata,
		Actor:      actor,
	}
	if slot.Target == models.EntityBook && slot.Graded() {
		promotion := examinersAssignedPromotion
		params.Promotion = &promotion
	}

	result, err := s.repo.Assign(ctx, params)
	if err != nil {
		return nil, s.hooks.translate("assign role", err)
	}

	evts := []events.Event{assignmentEvent(result.Assignment, nil, actor, "assigned")}
	evts = append(evts, transitionEvents(slot.Target, req.TargetID, actor, result.Transition)...)
	s.hooks.committed(ctx, evts...)

	return &dto.AssignmentResult{Assignment: result.Assignment, StatusChange: result.Transition}, nil
}

// Change ends the current holder's assignment and installs the new assignee.
func (s *AssignmentService) Change(ctx context.Context, req dto.ChangeAssignmentRequest, actor string) (*dto.AssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment change payload")
	}
	slot, err := resolveSlot(req.RoleSlot)
	if err != nil {
		return nil, err
	}
	if err := s.capabilities.requireCapability(ctx, req.NewAssigneeID, slot.Capability, slot.ExaminerType); err != nil {
		return nil, err
	}

	result, err := s.repo.Change(ctx, repository.ChangeParams{
		Slot:          slot,
		TargetID:      req.TargetID,
		OldAssigneeID: req.OldAssigneeID,
		NewAssigneeID: req.NewAssigneeID,
		Reason:        req.Reason,
		Metadata:      req.Metadata,
		Actor:         actor,
	})
	if err != nil {
		return nil, s.hooks.translate("change assignment", err)
	}

	supersededID := result.SupersededID
	s.hooks.committed(ctx, assignmentEvent(result.Assignment, &supersededID, actor, "changed"))
	s.logger.Info("assignment changed",
		zap.String("target_id", req.TargetID),
		zap.String("role_slot", string(slot.Slot)),
		zap.String("superseded_id", supersededID),
	)
	return &dto.AssignmentResult{Assignment: result.Assignment, SupersededID: &supersededID}, nil
}

// RecordGrade stores the examiner grade on a current, ungraded examiner assignment.
func (s *AssignmentService) RecordGrade(ctx context.Context, assignmentID string, req dto.RecordGradeRequest, actor string) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if err := checkMark(s.grading, "grade", *req.Grade); err != nil {
		return nil, s.hooks.reject(err)
	}

	existing, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, s.hooks.translate("load assignment", err)
	}
	if slot, ok := models.LookupSlot(string(existing.RoleSlot)); !ok || !slot.Graded() {
		return nil, s.hooks.reject(appErrors.Clone(appErrors.ErrConflict, "only examiner assignments carry a grade"))
	}

	graded, err := s.repo.RecordGrade(ctx, assignmentID, *req.Grade)
	if err != nil {
		return nil, s.hooks.translate("record grade", err)
	}
	s.hooks.committed(ctx, assignmentEvent(*graded, nil, actor, "graded"))
	return graded, nil
}

// List returns the assignments held against a target in assignment order.
func (s *AssignmentService) List(ctx context.Context, targetID string, query dto.AssignmentQuery) ([]models.Assignment, error) {
	filter := models.AssignmentFilter{TargetID: targetID, CurrentOnly: query.CurrentOnly}
	if query.RoleSlot != "" {
		slot, err := resolveSlot(query.RoleSlot)
		if err != nil {
			return nil, err
		}
		filter.RoleSlot = slot.Slot
	}
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.hooks.translate("list assignments", err)
	}
	return assignments, nil
}

func resolveSlot(raw string) (models.SlotSpec, error) {
	slot, ok := models.LookupSlot(raw)
	if !ok {
		return models.SlotSpec{}, appErrors.WithField(appErrors.ErrValidation, "roleSlot", fmt.Sprintf("unknown role slot %q", raw))
	}
	return slot, nil
}

// checkMark enforces the configured grading bounds.
func checkMark(bounds config.GradingConfig, field string, mark float64) *appErrors.Error {
	if mark < bounds.MinMark || mark > bounds.MaxMark {
		return appErrors.WithField(appErrors.ErrInvalidGradeRange, field,
			fmt.Sprintf("%s must be between %g and %g", field, bounds.MinMark, bounds.MaxMark))
	}
	return nil
}

func assignmentEvent(a models.Assignment, supersededID *string, actor, action string) events.Event {
	return events.Event{
		Type:         events.TypeAssignmentChanged,
		EntityType:   string(a.TargetType),
		EntityID:     a.TargetID,
		RecordID:     a.ID,
		SupersededID: supersededID,
		Actor:        actor,
		Attributes: map[string]string{
			"action":     action,
			"roleSlot":   string(a.RoleSlot),
			"assigneeId": a.AssigneeID,
		},
		OccurredAt: a.AssignedAt,
	}
}
