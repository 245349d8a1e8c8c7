package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
	"github.com/noah-isme/thesis-workflow-api/pkg/events"
)

const reportCachePattern = "reports:*"

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// WorkflowHooks runs the post-commit side effects shared by every workflow
// mutation and maps repository failures onto API errors.
type WorkflowHooks struct {
	cache     cacheInvalidator
	publisher events.Publisher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewWorkflowHooks wires cache invalidation, event publishing and metrics.
func NewWorkflowHooks(cache cacheInvalidator, publisher events.Publisher, metrics *MetricsService, logger *zap.Logger) *WorkflowHooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowHooks{cache: cache, publisher: publisher, metrics: metrics, logger: logger}
}

// committed must be called after a successful commit and before responding.
// Report cache invalidation happens synchronously; event delivery is best effort.
func (h *WorkflowHooks) committed(ctx context.Context, evts ...events.Event) {
	if h == nil {
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, reportCachePattern); err != nil {
			h.logger.Error("failed to invalidate report cache", zap.Error(err))
		}
	}
	for _, evt := range evts {
		if evt.Type == events.TypeStatusTransitioned {
			h.metrics.RecordTransition(evt.EntityType, evt.Attributes["status"])
		}
		if h.publisher == nil {
			continue
		}
		if err := h.publisher.Publish(ctx, evt); err != nil {
			h.metrics.RecordEventFailure()
			h.logger.Warn("failed to publish workflow event",
				zap.String("type", evt.Type),
				zap.String("entity_id", evt.EntityID),
				zap.Error(err),
			)
		}
	}
}

// translate maps repository sentinels to typed API errors. op names the failed
// operation for unexpected errors.
func (h *WorkflowHooks) translate(op string, err error) error {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		h.rejected(typed)
		return typed
	}

	var mapped *appErrors.Error
	switch {
	case errors.Is(err, repository.ErrEntityNotFound):
		mapped = appErrors.Clone(appErrors.ErrNotFound, "entity not found")
	case errors.Is(err, repository.ErrStatusDefinitionNotFound):
		mapped = appErrors.Clone(appErrors.ErrNotFound, "status definition not found")
	case errors.Is(err, repository.ErrPersonNotFound):
		mapped = appErrors.Clone(appErrors.ErrNotFound, "person not found")
	case errors.Is(err, repository.ErrAssignmentNotFound):
		mapped = appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	case errors.Is(err, repository.ErrDefenseNotFound):
		mapped = appErrors.Clone(appErrors.ErrNotFound, "defense not found")
	case errors.Is(err, repository.ErrVivaNotFound):
		mapped = appErrors.Clone(appErrors.ErrNotFound, "viva not found")
	case errors.Is(err, repository.ErrStatusDefinitionInactive):
		mapped = appErrors.Clone(appErrors.ErrInactiveDefinition, "")
	case errors.Is(err, repository.ErrDuplicateName):
		mapped = appErrors.Clone(appErrors.ErrConflict, "a record with the same name already exists")
	case errors.Is(err, repository.ErrSlotOccupied):
		mapped = appErrors.Clone(appErrors.ErrDuplicateRoleAssignment, "role slot already has a current holder, use change instead")
	case errors.Is(err, repository.ErrDuplicateAssignee):
		mapped = appErrors.Clone(appErrors.ErrDuplicateRoleAssignment, "")
	case errors.Is(err, repository.ErrNotCurrent):
		mapped = appErrors.Clone(appErrors.ErrNotCurrentAssignment, "")
	case errors.Is(err, repository.ErrAlreadyGraded):
		mapped = appErrors.Clone(appErrors.ErrAlreadyGraded, "")
	case errors.Is(err, repository.ErrStatusMismatch):
		mapped = appErrors.Clone(appErrors.ErrConflict, "current status does not allow this operation")
	case errors.Is(err, repository.ErrCapabilityConflict):
		mapped = appErrors.Clone(appErrors.ErrCapabilityConflict, "")
	case errors.Is(err, repository.ErrConcurrentUpdate):
		mapped = appErrors.Clone(appErrors.ErrConcurrentUpdate, "")
	case errors.Is(err, repository.ErrInconsistentLedger):
		h.log().Error("inconsistent ledger detected", zap.String("operation", op), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInconsistentLedger.Code, appErrors.ErrInconsistentLedger.Status, appErrors.ErrInconsistentLedger.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+op)
	}
	h.rejected(mapped)
	return mapped
}

// reject records a business-rule rejection raised by the service itself.
func (h *WorkflowHooks) reject(err *appErrors.Error) error {
	h.rejected(err)
	return err
}

func (h *WorkflowHooks) rejected(err *appErrors.Error) {
	if h == nil || err == nil || err.Status != http.StatusConflict {
		return
	}
	h.metrics.RecordRejection(err.Code)
}

func (h *WorkflowHooks) log() *zap.Logger {
	if h == nil {
		return zap.NewNop()
	}
	return h.logger
}

func transitionEvent(entityType models.EntityType, entityID, actor string, t *models.StatusTransition) events.Event {
	return events.Event{
		Type:         events.TypeStatusTransitioned,
		EntityType:   string(entityType),
		EntityID:     entityID,
		RecordID:     t.Record.ID,
		SupersededID: t.SupersededID,
		NotifyRoles:  t.NotifyRoles,
		Actor:        actor,
		Attributes:   map[string]string{"status": t.Record.StatusName},
		OccurredAt:   t.Record.CreatedAt,
	}
}

// transitionEvents returns zero or one event for an optional transition.
func transitionEvents(entityType models.EntityType, entityID, actor string, t *models.StatusTransition) []events.Event {
	if t == nil {
		return nil
	}
	return []events.Event{transitionEvent(entityType, entityID, actor, t)}
}
