package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

type statusLedgerRepository interface {
	Transition(ctx context.Context, params repository.TransitionParams) (*models.StatusTransition, error)
	Current(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusRecord, error)
	History(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusRecord, error)
	EntityExists(ctx context.Context, entityType models.EntityType, entityID string) (bool, error)
}

// LedgerService maintains the status history of tracked entities.
type LedgerService struct {
	repo      statusLedgerRepository
	hooks     *WorkflowHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLedgerService constructs the status ledger service.
func NewLedgerService(repo statusLedgerRepository, hooks *WorkflowHooks, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{repo: repo, hooks: hooks, validator: validate, logger: logger}
}

// TransitionStatus moves the entity to a new current status, superseding the previous one.
func (s *LedgerService) TransitionStatus(ctx context.Context, entityType models.EntityType, entityID string, req dto.TransitionStatusRequest, actor string) (*models.StatusTransition, error) {
	if !entityType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown entity type")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status transition payload")
	}

	effectiveAt := time.Now().UTC()
	if req.EffectiveAt != nil {
		effectiveAt = req.EffectiveAt.UTC()
	}

	result, err := s.repo.Transition(ctx, repository.TransitionParams{
		EntityType:         entityType,
		EntityID:           entityID,
		StatusDefinitionID: req.StatusDefinitionID,
		EffectiveAt:        effectiveAt,
		Actor:              actor,
	})
	if err != nil {
		return nil, s.hooks.translate("transition status", err)
	}

	s.hooks.committed(ctx, transitionEvent(entityType, entityID, actor, result))
	s.logger.Info("status transitioned",
		zap.String("entity_type", string(entityType)),
		zap.String("entity_id", entityID),
		zap.String("status", result.Record.StatusName),
	)
	return result, nil
}

// CurrentStatus returns the entity's current record, or nil when none exists yet.
func (s *LedgerService) CurrentStatus(ctx context.Context, entityType models.EntityType, entityID string) (*models.StatusRecord, error) {
	if err := s.ensureEntity(ctx, entityType, entityID); err != nil {
		return nil, err
	}
	records, err := s.repo.Current(ctx, entityType, entityID)
	if err != nil {
		return nil, s.hooks.translate("load current status", err)
	}
	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return &records[0], nil
	default:
		err := fmt.Errorf("%s %s has %d current status records: %w", entityType, entityID, len(records), repository.ErrInconsistentLedger)
		return nil, s.hooks.translate("load current status", err)
	}
}

// StatusHistory returns every record for the entity, oldest first.
func (s *LedgerService) StatusHistory(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusRecord, error) {
	if err := s.ensureEntity(ctx, entityType, entityID); err != nil {
		return nil, err
	}
	records, err := s.repo.History(ctx, entityType, entityID)
	if err != nil {
		return nil, s.hooks.translate("load status history", err)
	}
	return records, nil
}

func (s *LedgerService) ensureEntity(ctx context.Context, entityType models.EntityType, entityID string) error {
	if !entityType.Valid() {
		return appErrors.Clone(appErrors.ErrNotFound, "unknown entity type")
	}
	exists, err := s.repo.EntityExists(ctx, entityType, entityID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entity")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", entityType))
	}
	return nil
}
