package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

type entityServiceStub struct {
	registerErr error
	getErr      error
	lastActor   string
	lastParent  string
	calls       int
}

func (s *entityServiceStub) RegisterStudent(_ context.Context, req dto.RegisterStudentRequest, actor string) (*dto.StudentResponse, error) {
	s.calls++
	s.lastActor = actor
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &dto.StudentResponse{
		Student: models.Student{ID: validID, RegistrationNumber: req.RegistrationNumber},
		Status:  &models.StatusTransition{Record: models.StatusRecord{StatusName: "registered"}},
	}, nil
}

func (s *entityServiceStub) SubmitProposal(_ context.Context, studentID string, _ dto.SubmitProposalRequest, actor string) (*dto.ProposalResponse, error) {
	s.calls++
	s.lastParent = studentID
	s.lastActor = actor
	return &dto.ProposalResponse{Proposal: models.Proposal{ID: "proposal-1"}}, nil
}

func (s *entityServiceStub) SubmitBook(_ context.Context, proposalID string, _ dto.SubmitBookRequest, actor string) (*dto.BookResponse, error) {
	s.calls++
	s.lastParent = proposalID
	s.lastActor = actor
	return &dto.BookResponse{Book: models.Book{ID: "book-1"}}, nil
}

func (s *entityServiceStub) GetStudent(context.Context, string) (*models.Student, error) {
	s.calls++
	return &models.Student{ID: validID}, s.getErr
}

func (s *entityServiceStub) GetProposal(context.Context, string) (*models.Proposal, error) {
	s.calls++
	return &models.Proposal{ID: validID}, s.getErr
}

func (s *entityServiceStub) GetBook(context.Context, string) (*models.Book, error) {
	s.calls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Book{ID: validID}, nil
}

func TestEntityHandlerRegisterStudentPassesActor(t *testing.T) {
	svc := &entityServiceStub{}
	h := NewEntityHandler(svc)

	c, w := newGinContext(http.MethodPost, "/students", dto.RegisterStudentRequest{RegistrationNumber: "PG/001", FullName: "Ada"})
	h.RegisterStudent(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, adminID, svc.lastActor)
	assert.Contains(t, w.Body.String(), `"statusName":"registered"`)
}

func TestEntityHandlerRegisterStudentRejectsMalformedJSON(t *testing.T) {
	svc := &entityServiceStub{}
	h := NewEntityHandler(svc)

	c, w := newGinContext(http.MethodPost, "/students", []byte(`{"fullName":`))
	h.RegisterStudent(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestEntityHandlerRegisterStudentConflict(t *testing.T) {
	svc := &entityServiceStub{registerErr: appErrors.WithField(appErrors.ErrConflict, "registrationNumber", "registration number already exists")}
	h := NewEntityHandler(svc)

	c, w := newGinContext(http.MethodPost, "/students", dto.RegisterStudentRequest{RegistrationNumber: "PG/001", FullName: "Ada"})
	h.RegisterStudent(c)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "registrationNumber", env.Error.Field)
}

func TestEntityHandlerMalformedIDIsNotFound(t *testing.T) {
	svc := &entityServiceStub{}
	h := NewEntityHandler(svc)

	c, w := newGinContext(http.MethodGet, "/books/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.GetBook(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, svc.calls)
}

func TestEntityHandlerSubmitBookUsesProposalFromPath(t *testing.T) {
	svc := &entityServiceStub{}
	h := NewEntityHandler(svc)

	c, w := newGinContext(http.MethodPost, "/proposals/"+validID+"/books", dto.SubmitBookRequest{Title: "Volume 1"})
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.SubmitBook(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, validID, svc.lastParent)
}

func TestEntityHandlerGetBookNotFound(t *testing.T) {
	svc := &entityServiceStub{getErr: appErrors.Clone(appErrors.ErrNotFound, "book not found")}
	h := NewEntityHandler(svc)

	c, w := newGinContext(http.MethodGet, "/books/"+validID, nil)
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.GetBook(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
