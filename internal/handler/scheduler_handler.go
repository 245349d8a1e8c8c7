package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/pkg/response"
)

type schedulerService interface {
	ScheduleDefense(ctx context.Context, proposalID string, req dto.ScheduleDefenseRequest, actor string) (*dto.DefenseResult, error)
	RecordDefenseVerdict(ctx context.Context, defenseID string, req dto.DefenseVerdictRequest, actor string) (*dto.DefenseResult, error)
	DefenseHistory(ctx context.Context, proposalID string) ([]models.Defense, error)
	ScheduleViva(ctx context.Context, bookID string, req dto.ScheduleVivaRequest, actor string) (*dto.VivaResult, error)
	RecordVivaVerdict(ctx context.Context, vivaID string, req dto.VivaVerdictRequest, actor string) (*dto.VivaResult, error)
	VivaHistory(ctx context.Context, bookID string) ([]models.Viva, error)
}

// SchedulerHandler exposes defense and viva scheduling.
type SchedulerHandler struct {
	scheduler schedulerService
}

// NewSchedulerHandler constructs SchedulerHandler.
func NewSchedulerHandler(scheduler schedulerService) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

// ScheduleDefense godoc
// @Summary Schedule a proposal defense
// @Description The proposal must currently be "submitted" or already "defense scheduled". Any earlier defense is superseded.
// @Tags Defenses
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param payload body dto.ScheduleDefenseRequest true "Defense payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /proposals/{id}/defenses [post]
func (h *SchedulerHandler) ScheduleDefense(c *gin.Context) {
	proposalID, ok := pathID(c, "id", "proposal")
	if !ok {
		return
	}
	var req dto.ScheduleDefenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid defense payload"))
		return
	}
	result, err := h.scheduler.ScheduleDefense(c.Request.Context(), proposalID, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// RecordDefenseVerdict godoc
// @Summary Record a defense verdict
// @Tags Defenses
// @Accept json
// @Produce json
// @Param id path string true "Defense ID"
// @Param payload body dto.DefenseVerdictRequest true "Verdict payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /defenses/{id}/verdict [patch]
func (h *SchedulerHandler) RecordDefenseVerdict(c *gin.Context) {
	defenseID, ok := pathID(c, "id", "defense")
	if !ok {
		return
	}
	var req dto.DefenseVerdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid verdict payload"))
		return
	}
	result, err := h.scheduler.RecordDefenseVerdict(c.Request.Context(), defenseID, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DefenseHistory godoc
// @Summary List proposal defenses
// @Tags Defenses
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /proposals/{id}/defenses [get]
func (h *SchedulerHandler) DefenseHistory(c *gin.Context) {
	proposalID, ok := pathID(c, "id", "proposal")
	if !ok {
		return
	}
	defenses, err := h.scheduler.DefenseHistory(c.Request.Context(), proposalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, defenses, nil)
}

// ScheduleViva godoc
// @Summary Schedule a viva
// @Description Requires current internal and external examiners. The chairperson must be the internal examiner and reviewers the external examiner.
// @Tags Vivas
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param payload body dto.ScheduleVivaRequest true "Viva payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /books/{id}/vivas [post]
func (h *SchedulerHandler) ScheduleViva(c *gin.Context) {
	bookID, ok := pathID(c, "id", "book")
	if !ok {
		return
	}
	var req dto.ScheduleVivaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid viva payload"))
		return
	}
	result, err := h.scheduler.ScheduleViva(c.Request.Context(), bookID, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// RecordVivaVerdict godoc
// @Summary Record viva marks and verdict
// @Tags Vivas
// @Accept json
// @Produce json
// @Param id path string true "Viva ID"
// @Param payload body dto.VivaVerdictRequest true "Verdict payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /vivas/{id}/verdict [patch]
func (h *SchedulerHandler) RecordVivaVerdict(c *gin.Context) {
	vivaID, ok := pathID(c, "id", "viva")
	if !ok {
		return
	}
	var req dto.VivaVerdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid verdict payload"))
		return
	}
	result, err := h.scheduler.RecordVivaVerdict(c.Request.Context(), vivaID, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// VivaHistory godoc
// @Summary List book vivas
// @Tags Vivas
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Router /books/{id}/vivas [get]
func (h *SchedulerHandler) VivaHistory(c *gin.Context) {
	bookID, ok := pathID(c, "id", "book")
	if !ok {
		return
	}
	vivas, err := h.scheduler.VivaHistory(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vivas, nil)
}
