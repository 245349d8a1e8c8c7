package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/pkg/response"
)

type statusDefinitionService interface {
	List(ctx context.Context, query dto.StatusDefinitionQuery) ([]models.StatusDefinition, error)
	Create(ctx context.Context, req dto.StatusDefinitionRequest) (*models.StatusDefinition, error)
	Update(ctx context.Context, id string, req dto.StatusDefinitionRequest) (*models.StatusDefinition, error)
}

// StatusDefinitionHandler administers the status vocabulary.
type StatusDefinitionHandler struct {
	definitions statusDefinitionService
}

// NewStatusDefinitionHandler constructs StatusDefinitionHandler.
func NewStatusDefinitionHandler(definitions statusDefinitionService) *StatusDefinitionHandler {
	return &StatusDefinitionHandler{definitions: definitions}
}

// List godoc
// @Summary List status definitions
// @Tags Status Definitions
// @Produce json
// @Param activeOnly query bool false "Only active definitions"
// @Success 200 {object} response.Envelope
// @Router /status-definitions [get]
func (h *StatusDefinitionHandler) List(c *gin.Context) {
	var query dto.StatusDefinitionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	definitions, err := h.definitions.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, definitions, nil)
}

// Create godoc
// @Summary Create status definition
// @Tags Status Definitions
// @Accept json
// @Produce json
// @Param payload body dto.StatusDefinitionRequest true "Definition payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /status-definitions [post]
func (h *StatusDefinitionHandler) Create(c *gin.Context) {
	var req dto.StatusDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status definition payload"))
		return
	}
	definition, err := h.definitions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, definition)
}

// Update godoc
// @Summary Update status definition
// @Description Replaces the definition; set isActive=false to deactivate it.
// @Tags Status Definitions
// @Accept json
// @Produce json
// @Param id path string true "Definition ID"
// @Param payload body dto.StatusDefinitionRequest true "Definition payload"
// @Success 200 {object} response.Envelope
// @Router /status-definitions/{id} [put]
func (h *StatusDefinitionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "status definition")
	if !ok {
		return
	}
	var req dto.StatusDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status definition payload"))
		return
	}
	definition, err := h.definitions.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, definition, nil)
}
