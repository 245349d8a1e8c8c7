package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/pkg/response"
)

type ledgerService interface {
	TransitionStatus(ctx context.Context, entityType models.EntityType, entityID string, req dto.TransitionStatusRequest, actor string) (*models.StatusTransition, error)
	CurrentStatus(ctx context.Context, entityType models.EntityType, entityID string) (*models.StatusRecord, error)
	StatusHistory(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusRecord, error)
}

// LedgerHandler exposes the status ledger for every tracked entity kind. The
// entity kind is bound when the route is registered.
type LedgerHandler struct {
	ledger ledgerService
}

// NewLedgerHandler constructs LedgerHandler.
func NewLedgerHandler(ledger ledgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Transition godoc
// @Summary Transition entity status
// @Description Supersedes the current status record of a student, proposal or book.
// @Tags Status
// @Accept json
// @Produce json
// @Param entity path string true "students, proposals or books"
// @Param id path string true "Entity ID"
// @Param payload body dto.TransitionStatusRequest true "Transition payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /{entity}/{id}/status [post]
func (h *LedgerHandler) Transition(entityType models.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		entityID, ok := pathID(c, "id", string(entityType))
		if !ok {
			return
		}
		var req dto.TransitionStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err, "invalid status transition payload"))
			return
		}
		transition, err := h.ledger.TransitionStatus(c.Request.Context(), entityType, entityID, req, actorID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, transition, nil)
	}
}

// Current godoc
// @Summary Current entity status
// @Tags Status
// @Produce json
// @Param entity path string true "students, proposals or books"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Router /{entity}/{id}/status [get]
func (h *LedgerHandler) Current(entityType models.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		entityID, ok := pathID(c, "id", string(entityType))
		if !ok {
			return
		}
		record, err := h.ledger.CurrentStatus(c.Request.Context(), entityType, entityID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, dto.CurrentStatusResponse{
			EntityType: entityType,
			EntityID:   entityID,
			Current:    record,
		}, nil)
	}
}

// History godoc
// @Summary Entity status history
// @Description Returns every status record, oldest first.
// @Tags Status
// @Produce json
// @Param entity path string true "students, proposals or books"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Router /{entity}/{id}/status/history [get]
func (h *LedgerHandler) History(entityType models.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		entityID, ok := pathID(c, "id", string(entityType))
		if !ok {
			return
		}
		history, err := h.ledger.StatusHistory(c.Request.Context(), entityType, entityID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, history, nil)
	}
}
