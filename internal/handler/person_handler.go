package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/pkg/response"
)

type personService interface {
	CreatePerson(ctx context.Context, req dto.CreatePersonRequest) (*models.Person, error)
	GetPerson(ctx context.Context, id string) (*dto.PersonResponse, error)
	ConvertStaffToPanelist(ctx context.Context, staffID string) (*models.Panelist, error)
	GrantCapability(ctx context.Context, personID string, req dto.GrantCapabilityRequest) (*dto.CapabilityResult, error)
}

// PersonHandler manages people and their capabilities.
type PersonHandler struct {
	persons personService
}

// NewPersonHandler constructs PersonHandler.
func NewPersonHandler(persons personService) *PersonHandler {
	return &PersonHandler{persons: persons}
}

// Create godoc
// @Summary Create person
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body dto.CreatePersonRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Router /persons [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid person payload"))
		return
	}
	person, err := h.persons.CreatePerson(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// Get godoc
// @Summary Get person with capabilities
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "person")
	if !ok {
		return
	}
	person, err := h.persons.GetPerson(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// ConvertToPanelist godoc
// @Summary Convert staff member to panelist
// @Description Idempotent: repeated calls return the same panelist id.
// @Tags Persons
// @Produce json
// @Param id path string true "Staff person ID"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /persons/{id}/panelist [post]
func (h *PersonHandler) ConvertToPanelist(c *gin.Context) {
	id, ok := pathID(c, "id", "staff member")
	if !ok {
		return
	}
	panelist, err := h.persons.ConvertStaffToPanelist(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if panelist.Created {
		status = http.StatusCreated
	}
	response.JSON(c, status, panelist, nil)
}

// GrantCapability godoc
// @Summary Grant a capability
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body dto.GrantCapabilityRequest true "Capability payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /persons/{id}/capabilities [post]
func (h *PersonHandler) GrantCapability(c *gin.Context) {
	id, ok := pathID(c, "id", "person")
	if !ok {
		return
	}
	var req dto.GrantCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid capability payload"))
		return
	}
	result, err := h.persons.GrantCapability(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.JSON(c, status, result, nil)
}
