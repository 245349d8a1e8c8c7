package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

type schedulerServiceStub struct {
	err       error
	lastActor string
}

func (s *schedulerServiceStub) ScheduleDefense(_ context.Context, proposalID string, req dto.ScheduleDefenseRequest, actor string) (*dto.DefenseResult, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	previous := "defense-0"
	return &dto.DefenseResult{
		Defense:      models.Defense{ID: "defense-1", ProposalID: proposalID, ScheduledDate: req.ScheduledDate, IsCurrent: true},
		SupersededID: &previous,
	}, nil
}

func (s *schedulerServiceStub) RecordDefenseVerdict(_ context.Context, defenseID string, req dto.DefenseVerdictRequest, _ string) (*dto.DefenseResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DefenseResult{Defense: models.Defense{ID: defenseID, Verdict: &req.Verdict}}, nil
}

func (s *schedulerServiceStub) DefenseHistory(context.Context, string) ([]models.Defense, error) {
	return []models.Defense{{ID: "defense-0"}, {ID: "defense-1", IsCurrent: true}}, s.err
}

func (s *schedulerServiceStub) ScheduleViva(_ context.Context, bookID string, _ dto.ScheduleVivaRequest, actor string) (*dto.VivaResult, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &dto.VivaResult{Viva: models.Viva{ID: "viva-1", BookID: bookID}}, nil
}

func (s *schedulerServiceStub) RecordVivaVerdict(_ context.Context, vivaID string, _ dto.VivaVerdictRequest, _ string) (*dto.VivaResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.VivaResult{Viva: models.Viva{ID: vivaID}}, nil
}

func (s *schedulerServiceStub) VivaHistory(context.Context, string) ([]models.Viva, error) {
	return nil, s.err
}

func TestSchedulerHandlerScheduleDefense(t *testing.T) {
	svc := &schedulerServiceStub{}
	h := NewSchedulerHandler(svc)

	c, w := newGinContext(http.MethodPost, "/proposals/"+validID+"/defenses", dto.ScheduleDefenseRequest{
		ScheduledDate: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC),
		PanelistIDs:   []string{validID},
	})
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.ScheduleDefense(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, adminID, svc.lastActor)
	assert.Contains(t, w.Body.String(), `"supersededId":"defense-0"`)
}

func TestSchedulerHandlerScheduleDefenseNotReady(t *testing.T) {
	h := NewSchedulerHandler(&schedulerServiceStub{err: appErrors.ErrProposalNotReady})

	c, w := newGinContext(http.MethodPost, "/proposals/"+validID+"/defenses", dto.ScheduleDefenseRequest{
		ScheduledDate: time.Now(),
		PanelistIDs:   []string{validID},
	})
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.ScheduleDefense(c)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PROPOSAL_NOT_READY", env.Error.Code)
}

func TestSchedulerHandlerScheduleVivaSurfacesPrecondition(t *testing.T) {
	h := NewSchedulerHandler(&schedulerServiceStub{err: appErrors.WithField(appErrors.ErrInvalidChairperson, "chairpersonId", "")})

	c, w := newGinContext(http.MethodPost, "/books/"+validID+"/vivas", dto.ScheduleVivaRequest{
		VivaDate:           time.Now(),
		Location:           "Senate Room",
		ChairpersonID:      validID,
		MinutesSecretaryID: validID,
	})
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.ScheduleViva(c)

	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CHAIRPERSON", env.Error.Code)
	assert.Equal(t, "chairpersonId", env.Error.Field)
}

func TestSchedulerHandlerRecordVivaVerdictAlreadyGraded(t *testing.T) {
	h := NewSchedulerHandler(&schedulerServiceStub{err: appErrors.ErrAlreadyGraded})

	c, w := newGinContext(http.MethodPatch, "/vivas/"+validID+"/verdict", []byte(`{"internalMark":70,"externalMark":75,"verdict":"PASS"}`))
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.RecordVivaVerdict(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSchedulerHandlerDefenseHistory(t *testing.T) {
	h := NewSchedulerHandler(&schedulerServiceStub{})

	c, w := newGinContext(http.MethodGet, "/proposals/"+validID+"/defenses", nil)
	c.Params = gin.Params{{Key: "id", Value: validID}}
	h.DefenseHistory(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"defense-1"`)
}
