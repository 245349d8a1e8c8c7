package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/pkg/response"
)

type assignmentService interface {
	Assign(ctx context.Context, req dto.AssignRequest, actor string) (*dto.AssignmentResult, error)
	Change(ctx context.Context, req dto.ChangeAssignmentRequest, actor string) (*dto.AssignmentResult, error)
	RecordGrade(ctx context.Context, assignmentID string, req dto.RecordGradeRequest, actor string) (*models.Assignment, error)
	List(ctx context.Context, targetID string, query dto.AssignmentQuery) ([]models.Assignment, error)
}

// AssignmentHandler exposes the assignment registry.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Assign godoc
// @Summary Assign a role slot
// @Description Fills an empty supervisor or examiner slot. Occupied slots must go through the change endpoint.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AssignRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid assignment payload"))
		return
	}
	result, err := h.assignments.Assign(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Change godoc
// @Summary Replace the holder of a role slot
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.ChangeAssignmentRequest true "Change payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/change [post]
func (h *AssignmentHandler) Change(c *gin.Context) {
	var req dto.ChangeAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid assignment change payload"))
		return
	}
	result, err := h.assignments.Change(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RecordGrade godoc
// @Summary Grade an examiner assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.RecordGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/grade [patch]
func (h *AssignmentHandler) RecordGrade(c *gin.Context) {
	id, ok := pathID(c, "id", "assignment")
	if !ok {
		return
	}
	var req dto.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid grade payload"))
		return
	}
	assignment, err := h.assignments.RecordGrade(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// List godoc
// @Summary List assignments of a target
// @Tags Assignments
// @Produce json
// @Param id path string true "Student or book ID"
// @Param roleSlot query string false "Role slot filter"
// @Param currentOnly query bool false "Only current holders"
// @Success 200 {object} response.Envelope
// @Router /targets/{id}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	targetID, ok := pathID(c, "id", "target")
	if !ok {
		return
	}
	var query dto.AssignmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	assignments, err := h.assignments.List(c.Request.Context(), targetID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}
