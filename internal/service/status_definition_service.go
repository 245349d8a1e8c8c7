package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

type statusDefinitionRepository interface {
	List(ctx context.Context, filter models.StatusDefinitionFilter) ([]models.StatusDefinition, error)
	FindByID(ctx context.Context, id string) (*models.StatusDefinition, error)
	Create(ctx context.Context, def *models.StatusDefinition) error
	Update(ctx context.Context, def *models.StatusDefinition) error
}

// StatusDefinitionService administers the catalogue of workflow statuses.
type StatusDefinitionService struct {
	repo      statusDefinitionRepository
	hooks     *WorkflowHooks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStatusDefinitionService constructs the definition service.
func NewStatusDefinitionService(repo statusDefinitionRepository, hooks *WorkflowHooks, validate *validator.Validate, logger *zap.Logger) *StatusDefinitionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusDefinitionService{repo: repo, hooks: hooks, validator: validate, logger: logger}
}

// List returns definitions ordered by name.
func (s *StatusDefinitionService) List(ctx context.Context, query dto.StatusDefinitionQuery) ([]models.StatusDefinition, error) {
	defs, err := s.repo.List(ctx, models.StatusDefinitionFilter{ActiveOnly: query.ActiveOnly})
	if err != nil {
		return nil, s.hooks.translate("list status definitions", err)
	}
	return defs, nil
}

// Create registers a new status definition.
func (s *StatusDefinitionService) Create(ctx context.Context, req dto.StatusDefinitionRequest) (*models.StatusDefinition, error) {
	def := &models.StatusDefinition{IsActive: true}
	if err := s.apply(def, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, def); err != nil {
		return nil, s.hooks.translate("create status definition", err)
	}
	s.hooks.committed(ctx)
	return def, nil
}

// Update replaces a definition's attributes, including deactivation.
func (s *StatusDefinitionService) Update(ctx context.Context, id string, req dto.StatusDefinitionRequest) (*models.StatusDefinition, error) {
	def, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.hooks.translate("load status definition", err)
	}
	if err := s.apply(def, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, def); err != nil {
		return nil, s.hooks.translate("update status definition", err)
	}
	s.hooks.committed(ctx)
	s.logger.Info("status definition updated", zap.String("id", def.ID), zap.Bool("active", def.IsActive))
	return def, nil
}

func (s *StatusDefinitionService) apply(def *models.StatusDefinition, req dto.StatusDefinitionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status definition payload")
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		return appErrors.WithField(appErrors.ErrValidation, "name", "name must not be blank")
	}
	if err := validateEscalation(req); err != nil {
		return err
	}

	def.Name = name
	def.Description = strings.TrimSpace(req.Description)
	def.ExpectedDurationDays = req.ExpectedDurationDays
	def.WarningDays = req.WarningDays
	def.CriticalDays = req.CriticalDays
	def.DelayDays = req.DelayDays
	def.NotifyRoles = lo.Uniq(lo.Map(req.NotifyRoles, func(role string, _ int) string {
		return strings.TrimSpace(role)
	}))
	def.Color = req.Color
	if req.IsActive != nil {
		def.IsActive = *req.IsActive
	}
	return nil
}

// validateEscalation requires critical < warning < expected < delay across the
// thresholds that are present.
func validateEscalation(req dto.StatusDefinitionRequest) error {
	thresholds := []struct {
		field string
		value *int
	}{
		{"criticalDays", req.CriticalDays},
		{"warningDays", req.WarningDays},
		{"expectedDurationDays", req.ExpectedDurationDays},
		{"delayDays", req.DelayDays},
	}
	var previous *int
	for _, t := range thresholds {
		if t.value == nil {
			continue
		}
		if previous != nil && *t.value <= *previous {
			return appErrors.WithField(appErrors.ErrInvalidEscalation, t.field, "")
		}
		previous = t.value
	}
	return nil
}
