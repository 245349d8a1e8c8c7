package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/pkg/response"
)

type entityService interface {
	RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest, actor string) (*dto.StudentResponse, error)
	SubmitProposal(ctx context.Context, studentID string, req dto.SubmitProposalRequest, actor string) (*dto.ProposalResponse, error)
	SubmitBook(ctx context.Context, proposalID string, req dto.SubmitBookRequest, actor string) (*dto.BookResponse, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	GetProposal(ctx context.Context, id string) (*models.Proposal, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
}

// EntityHandler exposes student, proposal and book registration.
type EntityHandler struct {
	entities entityService
}

// NewEntityHandler constructs EntityHandler.
func NewEntityHandler(entities entityService) *EntityHandler {
	return &EntityHandler{entities: entities}
}

// RegisterStudent godoc
// @Summary Register a student
// @Description Creates the student together with its initial "registered" status.
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *EntityHandler) RegisterStudent(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid student payload"))
		return
	}
	result, err := h.entities.RegisterStudent(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetStudent godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *EntityHandler) GetStudent(c *gin.Context) {
	id, ok := pathID(c, "id", "student")
	if !ok {
		return
	}
	student, err := h.entities.GetStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// SubmitProposal godoc
// @Summary Submit a proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.SubmitProposalRequest true "Proposal payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/proposals [post]
func (h *EntityHandler) SubmitProposal(c *gin.Context) {
	studentID, ok := pathID(c, "id", "student")
	if !ok {
		return
	}
	var req dto.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid proposal payload"))
		return
	}
	result, err := h.entities.SubmitProposal(c.Request.Context(), studentID, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetProposal godoc
// @Summary Get proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /proposals/{id} [get]
func (h *EntityHandler) GetProposal(c *gin.Context) {
	id, ok := pathID(c, "id", "proposal")
	if !ok {
		return
	}
	proposal, err := h.entities.GetProposal(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil)
}

// SubmitBook godoc
// @Summary Submit a dissertation book
// @Tags Books
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param payload body dto.SubmitBookRequest true "Book payload"
// @Success 201 {object} response.Envelope
// @Router /proposals/{id}/books [post]
func (h *EntityHandler) SubmitBook(c *gin.Context) {
	proposalID, ok := pathID(c, "id", "proposal")
	if !ok {
		return
	}
	var req dto.SubmitBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid book payload"))
		return
	}
	result, err := h.entities.SubmitBook(c.Request.Context(), proposalID, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetBook godoc
// @Summary Get book
// @Tags Books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Router /books/{id} [get]
func (h *EntityHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id", "book")
	if !ok {
		return
	}
	book, err := h.entities.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}
