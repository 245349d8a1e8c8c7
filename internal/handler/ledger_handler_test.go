package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

type ledgerServiceStub struct {
	transitionErr error
	current       *models.StatusRecord
	currentErr    error
	lastType      models.EntityType
}

func (s *ledgerServiceStub) TransitionStatus(_ context.Context, entityType models.EntityType, entityID string, req dto.TransitionStatusRequest, _ string) (*models.StatusTransition, error) {
	s.lastType = entityType
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	previous := "record-0"
	return &models.StatusTransition{
		Record:       models.StatusRecord{ID: "record-1", EntityType: entityType, EntityID: entityID, StatusDefinitionID: req.StatusDefinitionID, IsCurrent: true},
		SupersededID: &previous,
	}, nil
}

func (s *ledgerServiceStub) CurrentStatus(_ context.Context, entityType models.EntityType, _ string) (*models.StatusRecord, error) {
	s.lastType = entityType
	return s.current, s.currentErr
}

func (s *ledgerServiceStub) StatusHistory(_ context.Context, entityType models.EntityType, _ string) ([]models.StatusRecord, error) {
	s.lastType = entityType
	return []models.StatusRecord{{ID: "record-0"}, {ID: "record-1", IsCurrent: true}}, nil
}

func TestLedgerHandlerTransitionEchoesSupersededID(t *testing.T) {
	svc := &ledgerServiceStub{}
	h := NewLedgerHandler(svc)

	c, w := newGinContext(http.MethodPost, "/books/"+validID+"/status", dto.TransitionStatusRequest{StatusDefinitionID: validID})
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.Transition(models.EntityBook)(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EntityBook, svc.lastType)
	assert.Contains(t, w.Body.String(), `"supersededId":"record-0"`)
}

func TestLedgerHandlerTransitionInactiveDefinition(t *testing.T) {
	svc := &ledgerServiceStub{transitionErr: appErrors.ErrInactiveDefinition}
	h := NewLedgerHandler(svc)

	c, w := newGinContext(http.MethodPost, "/students/"+validID+"/status", dto.TransitionStatusRequest{StatusDefinitionID: validID})
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.Transition(models.EntityStudent)(c)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrInactiveDefinition.Code, env.Error.Code)
}

func TestLedgerHandlerCurrentWithoutRecord(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{})

	c, w := newGinContext(http.MethodGet, "/proposals/"+validID+"/status", nil)
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.Current(models.EntityProposal)(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"current":null`)
}

func TestLedgerHandlerInconsistentLedgerIsGenericInternalError(t *testing.T) {
	wrapped := appErrors.Wrap(errors.New("2 current rows"), appErrors.ErrInconsistentLedger.Code, appErrors.ErrInconsistentLedger.Status, appErrors.ErrInconsistentLedger.Message)
	h := NewLedgerHandler(&ledgerServiceStub{currentErr: wrapped})

	c, w := newGinContext(http.MethodGet, "/students/"+validID+"/status", nil)
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.Current(models.EntityStudent)(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrInternal.Code, env.Error.Code)
}

func TestLedgerHandlerHistory(t *testing.T) {
	svc := &ledgerServiceStub{}
	h := NewLedgerHandler(svc)

	c, w := newGinContext(http.MethodGet, "/students/"+validID+"/status/history", nil)
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.History(models.EntityStudent)(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EntityStudent, svc.lastType)
}
