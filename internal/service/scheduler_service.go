package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	"github.com/noah-isme/thesis-workflow-api/pkg/config"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
	"github.com/noah-isme/thesis-workflow-api/pkg/events"
)

type defenseRepository interface {
	Schedule(ctx context.Context, params repository.ScheduleDefenseParams) (*repository.ScheduleDefenseResult, error)
	RecordVerdict(ctx context.Context, params repository.RecordDefenseVerdictParams) (*models.Defense, *models.StatusTransition, error)
	History(ctx context.Context, proposalID string) ([]models.Defense, error)
}

type vivaRepository interface {
	Schedule(ctx context.Context, params repository.ScheduleVivaParams) (*repository.ScheduleVivaResult, error)
	RecordVerdict(ctx context.Context, params repository.RecordVivaVerdictParams) (*models.Viva, *models.StatusTransition, error)
	History(ctx context.Context, bookID string) ([]models.Viva, error)
}

type examinerReader interface {
	CurrentBySlot(ctx context.Context, targetID string, slots ...models.RoleSlot) (map[models.RoleSlot]models.Assignment, error)
}

type workflowEntityReader interface {
	FindProposal(ctx context.Context, id string) (*models.Proposal, error)
	FindBook(ctx context.Context, id string) (*models.Book, error)
}

// SchedulerService drives the proposal defense and book viva state machines.
type SchedulerService struct {
	defenses  defenseRepository
	vivas     vivaRepository
	examiners examinerReader
	entities  workflowEntityReader
	roster    capabilityChecker
	hooks     *WorkflowHooks
	grading   config.GradingConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchedulerService constructs the scheduler.
func NewSchedulerService(
	defenses defenseRepository,
	vivas vivaRepository,
	examiners examinerReader,
	entities workflowEntityReader,
	roster capabilityChecker,
	hooks *WorkflowHooks,
	grading config.GradingConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *SchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulerService{
		defenses:  defenses,
		vivas:     vivas,
		examiners: examiners,
		entities:  entities,
		roster:    roster,
		hooks:     hooks,
		grading:   grading,
		validator: validate,
		logger:    logger,
	}
}

// ScheduleDefense books a defense for a submitted proposal, superseding any
// current defense, and moves the proposal to "defense scheduled".
func (s *SchedulerService) ScheduleDefense(ctx context.Context, proposalID string, req dto.ScheduleDefenseRequest, actor string) (*dto.DefenseResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid defense payload")
	}
	if _, err := s.entities.FindProposal(ctx, proposalID); err != nil {
		return nil, s.hooks.translate("load proposal", err)
	}
	panelists := lo.Uniq(req.PanelistIDs)
	if err := s.requireRole(ctx, "panelistIds", models.CapabilityPanelist, panelists...); err != nil {
		return nil, err
	}

	result, err := s.defenses.Schedule(ctx, repository.ScheduleDefenseParams{
		ProposalID:      proposalID,
		ScheduledDate:   req.ScheduledDate,
		Venue:           strings.TrimSpace(req.Venue),
		PanelistIDs:     panelists,
		Actor:           actor,
		AllowedStatuses: []string{models.StatusSubmitted, models.StatusDefenseScheduled},
		TargetStatus:    models.StatusDefenseScheduled,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEntityNotFound):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
		case errors.Is(err, repository.ErrStatusMismatch):
			return nil, s.hooks.reject(appErrors.Clone(appErrors.ErrProposalNotReady, ""))
		}
		return nil, s.hooks.translate("schedule defense", err)
	}

	evts := []events.Event{{
		Type:         events.TypeDefenseScheduled,
		EntityType:   string(models.EntityProposal),
		EntityID:     proposalID,
		RecordID:     result.Defense.ID,
		SupersededID: result.SupersededID,
		Actor:        actor,
		OccurredAt:   result.Defense.CreatedAt,
	}}
	evts = append(evts, transitionEvents(models.EntityProposal, proposalID, actor, result.Transition)...)
	s.hooks.committed(ctx, evts...)

	return &dto.DefenseResult{Defense: result.Defense, SupersededID: result.SupersededID, StatusChange: result.Transition}, nil
}

// RecordDefenseVerdict marks the current defense and moves the proposal to
// "defense completed".
func (s *SchedulerService) RecordDefenseVerdict(ctx context.Context, defenseID string, req dto.DefenseVerdictRequest, actor string) (*dto.DefenseResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verdict payload")
	}

	defense, transition, err := s.defenses.RecordVerdict(ctx, repository.RecordDefenseVerdictParams{
		DefenseID:    defenseID,
		Verdict:      req.Verdict,
		Actor:        actor,
		TargetStatus: models.StatusDefenseCompleted,
	})
	if err != nil {
		return nil, s.hooks.translate("record defense verdict", err)
	}

	evts := []events.Event{verdictEvent(models.EntityProposal, defense.ProposalID, defense.ID, actor, req.Verdict)}
	evts = append(evts, transitionEvents(models.EntityProposal, defense.ProposalID, actor, transition)...)
	s.hooks.committed(ctx, evts...)

	return &dto.DefenseResult{Defense: *defense, StatusChange: transition}, nil
}

// DefenseHistory lists every defense of a proposal, oldest first.
func (s *SchedulerService) DefenseHistory(ctx context.Context, proposalID string) ([]models.Defense, error) {
	if _, err := s.entities.FindProposal(ctx, proposalID); err != nil {
		return nil, s.hooks.translate("load proposal", err)
	}
	defenses, err := s.defenses.History(ctx, proposalID)
	if err != nil {
		return nil, s.hooks.translate("load defense history", err)
	}
	return defenses, nil
}

// ScheduleViva books a viva for a book whose examiners are in place. The
// preconditions are checked in a fixed order so callers see one stable failure.
func (s *SchedulerService) ScheduleViva(ctx context.Context, bookID string, req dto.ScheduleVivaRequest, actor string) (*dto.VivaResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid viva payload")
	}
	if _, err := s.entities.FindBook(ctx, bookID); err != nil {
		return nil, s.hooks.translate("load book", err)
	}

	current, err := s.examiners.CurrentBySlot(ctx, bookID, models.SlotBookInternalExaminer, models.SlotBookExternalExaminer)
	if err != nil {
		return nil, s.hooks.translate("load examiners", err)
	}
	external, ok := current[models.SlotBookExternalExaminer]
	if !ok {
		return nil, s.hooks.reject(appErrors.Clone(appErrors.ErrMissingExternalExaminer, ""))
	}
	internal, ok := current[models.SlotBookInternalExaminer]
	if !ok {
		return nil, s.hooks.reject(appErrors.Clone(appErrors.ErrMissingInternalExaminer, ""))
	}
	if req.ChairpersonID != internal.AssigneeID {
		return nil, s.hooks.reject(appErrors.WithField(appErrors.ErrInvalidChairperson, "chairpersonId", ""))
	}
	reviewers := lo.Uniq(req.ReviewerIDs)
	if len(reviewers) == 0 {
		return nil, s.hooks.reject(appErrors.WithField(appErrors.ErrInvalidReviewer, "reviewerIds", "at least one reviewer is required"))
	}
	for _, id := range reviewers {
		if id != external.AssigneeID {
			return nil, s.hooks.reject(appErrors.WithField(appErrors.ErrInvalidReviewer, "reviewerIds", "reviewer "+id+" is not a current external examiner of the book"))
		}
	}
	panelists := lo.Uniq(req.PanelistIDs)
	if len(panelists) == 0 {
		return nil, s.hooks.reject(appErrors.WithField(appErrors.ErrNoPanelists, "panelistIds", ""))
	}
	if err := s.requireRole(ctx, "panelistIds", models.CapabilityPanelist, panelists...); err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, "minutesSecretaryId", models.CapabilityMinutesSecretary, req.MinutesSecretaryID); err != nil {
		return nil, err
	}

	result, err := s.vivas.Schedule(ctx, repository.ScheduleVivaParams{
		BookID:             bookID,
		VivaDate:           req.VivaDate,
		Location:           strings.TrimSpace(req.Location),
		ChairpersonID:      req.ChairpersonID,
		MinutesSecretaryID: req.MinutesSecretaryID,
		PanelistIDs:        panelists,
		ReviewerIDs:        reviewers,
		Actor:              actor,
		ExpectedExaminers: map[models.RoleSlot]string{
			models.SlotBookInternalExaminer: internal.ID,
			models.SlotBookExternalExaminer: external.ID,
		},
		TargetStatus: models.StatusVivaScheduled,
	})
	if err != nil {
		return nil, s.hooks.translate("schedule viva", err)
	}

	evts := []events.Event{{
		Type:         events.TypeVivaScheduled,
		EntityType:   string(models.EntityBook),
		EntityID:     bookID,
		RecordID:     result.Viva.ID,
		SupersededID: result.SupersededID,
		Actor:        actor,
		Attributes: map[string]string{
			"chairpersonId":      req.ChairpersonID,
			"minutesSecretaryId": req.MinutesSecretaryID,
		},
		OccurredAt: result.Viva.CreatedAt,
	}}
	evts = append(evts, transitionEvents(models.EntityBook, bookID, actor, result.Transition)...)
	s.hooks.committed(ctx, evts...)

	return &dto.VivaResult{Viva: result.Viva, SupersededID: result.SupersededID, StatusChange: result.Transition}, nil
}

// RecordVivaVerdict stores marks and verdict on the current, unmarked viva and
// moves the book to "viva completed".
func (s *SchedulerService) RecordVivaVerdict(ctx context.Context, vivaID string, req dto.VivaVerdictRequest, actor string) (*dto.VivaResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid viva verdict payload")
	}
	if err := checkMark(s.grading, "internalMark", *req.InternalMark); err != nil {
		return nil, s.hooks.reject(err)
	}
	if err := checkMark(s.grading, "externalMark", *req.ExternalMark); err != nil {
		return nil, s.hooks.reject(err)
	}

	viva, transition, err := s.vivas.RecordVerdict(ctx, repository.RecordVivaVerdictParams{
		VivaID:       vivaID,
		InternalMark: *req.InternalMark,
		ExternalMark: *req.ExternalMark,
		Verdict:      req.Verdict,
		Actor:        actor,
		TargetStatus: models.StatusVivaCompleted,
	})
	if err != nil {
		return nil, s.hooks.translate("record viva verdict", err)
	}

	evts := []events.Event{verdictEvent(models.EntityBook, viva.BookID, viva.ID, actor, req.Verdict)}
	evts = append(evts, transitionEvents(models.EntityBook, viva.BookID, actor, transition)...)
	s.hooks.committed(ctx, evts...)

	return &dto.VivaResult{Viva: *viva, StatusChange: transition}, nil
}

// VivaHistory lists every viva of a book, oldest first.
func (s *SchedulerService) VivaHistory(ctx context.Context, bookID string) ([]models.Viva, error) {
	if _, err := s.entities.FindBook(ctx, bookID); err != nil {
		return nil, s.hooks.translate("load book", err)
	}
	vivas, err := s.vivas.History(ctx, bookID)
	if err != nil {
		return nil, s.hooks.translate("load viva history", err)
	}
	return vivas, nil
}

func verdictEvent(entityType models.EntityType, entityID, recordID, actor string, verdict models.Verdict) events.Event {
	return events.Event{
		Type:       events.TypeVerdictRecorded,
		EntityType: string(entityType),
		EntityID:   entityID,
		RecordID:   recordID,
		Actor:      actor,
		Attributes: map[string]string{"verdict": string(verdict)},
	}
}

// requireRole checks that every person holds the capability. An unknown person
// is reported as lacking it, against the offending field.
func (s *SchedulerService) requireRole(ctx context.Context, field string, capability models.Capability, personIDs ...string) error {
	for _, id := range personIDs {
		err := s.roster.requireCapability(ctx, id, capability, nil)
		if err == nil {
			continue
		}
		missing := appErrors.WithField(appErrors.ErrMissingCapability, field, "person "+id+" lacks the "+string(capability)+" capability")
		switch {
		case errors.Is(err, appErrors.ErrMissingCapability):
			// the roster already counted this rejection
			return missing
		case errors.Is(err, appErrors.ErrNotFound):
			return s.hooks.reject(missing)
		}
		return err
	}
	return nil
}
