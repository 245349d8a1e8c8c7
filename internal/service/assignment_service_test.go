package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-workflow-api/internal/dto"
	"github.com/noah-isme/thesis-workflow-api/internal/models"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	"github.com/noah-isme/thesis-workflow-api/pkg/config"
	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
	"github.com/noah-isme/thesis-workflow-api/pkg/events"
)

const (
	studentID    = "0d1c5e7a-58a4-4c8e-9c43-0c0d6f1a0001"
	bookID       = "0d1c5e7a-58a4-4c8e-9c43-0c0d6f1a0002"
	supervisorA  = "7f2e9a10-1b5c-4f7e-8d3a-2a6b0c9d0001"
	supervisorB  = "7f2e9a10-1b5c-4f7e-8d3a-2a6b0c9d0002"
	internalExam = "7f2e9a10-1b5c-4f7e-8d3a-2a6b0c9d0003"
	externalExam = "7f2e9a10-1b5c-4f7e-8d3a-2a6b0c9d0004"
)

var testGrading = config.GradingConfig{MinMark: 0, MaxMark: 100}

type capabilityStub struct {
	err   error
	calls []models.Capability
}

func (c *capabilityStub) requireCapability(ctx context.Context, personID string, capability models.Capability, examinerType *models.ExaminerType) error {
	c.calls = append(c.calls, capability)
	return c.err
}

// registryStub keeps one current holder per (target, slot) in memory.
type registryStub struct {
	assignments []models.Assignment
	assignArgs  []repository.AssignParams
	promote     *models.StatusTransition
	gradeCalls  int
}

func (r *registryStub) current(targetID string, slot models.RoleSlot) int {
	for i, a := range r.assignments {
		if a.TargetID == targetID && a.RoleSlot == slot && a.IsCurrent {
			return i
		}
	}
	return -1
}

func (r *registryStub) insert(slot models.SlotSpec, targetID, assigneeID string) models.Assignment {
	a := models.Assignment{
		ID:         "asg-" + assigneeID[len(assigneeID)-4:] + "-" + string(slot.Slot),
		TargetType: slot.Target,
		TargetID:   targetID,
		RoleSlot:   slot.Slot,
		AssigneeID: assigneeID,
		IsCurrent:  true,
		AssignedAt: time.Now().UTC(),
	}
	r.assignments = append(r.assignments, a)
	return a
}

func (r *registryStub) Assign(ctx context.Context, params repository.AssignParams) (*repository.AssignResult, error) {
	r.assignArgs = append(r.assignArgs, params)
	if r.current(params.TargetID, params.Slot.Slot) >= 0 {
		return nil, repository.ErrSlotOccupied
	}
	for _, sibling := range params.Slot.Exclusive {
		if i := r.current(params.TargetID, sibling); i >= 0 && r.assignments[i].AssigneeID == params.AssigneeID {
			return nil, repository.ErrDuplicateAssignee
		}
	}
	a := r.insert(params.Slot, params.TargetID, params.AssigneeID)
	return &repository.AssignResult{Assignment: a, Transition: r.promote}, nil
}

func (r *registryStub) Change(ctx context.Context, params repository.ChangeParams) (*repository.ChangeResult, error) {
	i := r.current(params.TargetID, params.Slot.Slot)
	if i < 0 || r.assignments[i].AssigneeID != params.OldAssigneeID {
		return nil, repository.ErrNotCurrent
	}
	ended := time.Now().UTC()
	r.assignments[i].IsCurrent = false
	r.assignments[i].EndedAt = &ended
	r.assignments[i].EndReason = &params.Reason
	a := r.insert(params.Slot, params.TargetID, params.NewAssigneeID)
	return &repository.ChangeResult{Assignment: a, SupersededID: r.assignments[i].ID}, nil
}

func (r *registryStub) RecordGrade(ctx context.Context, assignmentID string, grade float64) (*models.Assignment, error) {
	r.gradeCalls++
	for i := range r.assignments {
		if r.assignments[i].ID != assignmentID {
			continue
		}
		if !r.assignments[i].IsCurrent {
			return nil, repository.ErrNotCurrent
		}
		if r.assignments[i].Grade != nil {
			return nil, repository.ErrAlreadyGraded
		}
		r.assignments[i].Grade = &grade
		cp := r.assignments[i]
		return &cp, nil
	}
	return nil, repository.ErrAssignmentNotFound
}

func (r *registryStub) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	for _, a := range r.assignments {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, repository.ErrAssignmentNotFound
}

func (r *registryStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range r.assignments {
		if a.TargetID != filter.TargetID || (filter.RoleSlot != "" && a.RoleSlot != filter.RoleSlot) || (filter.CurrentOnly && !a.IsCurrent) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func newAssignmentService(repo *registryStub, caps *capabilityStub) (*AssignmentService, *publisherStub) {
	hooks, publisher, _ := newTestHooks()
	return NewAssignmentService(repo, caps, hooks, testGrading, nil, nil), publisher
}

func TestAssignmentServiceAssignExaminerRequestsPromotion(t *testing.T) {
	repo := &registryStub{promote: &models.StatusTransition{Record: models.StatusRecord{ID: "rec-2", StatusName: models.StatusExaminersAssigned}}}
	caps := &capabilityStub{}
	svc, publisher := newAssignmentService(repo, caps)

	result, err := svc.Assign(context.Background(), dto.AssignRequest{TargetID: bookID, RoleSlot: "external-examiner", AssigneeID: externalExam}, "admin-1")
	require.NoError(t, err)

	require.Len(t, repo.assignArgs, 1)
	promotion := repo.assignArgs[0].Promotion
	require.NotNil(t, promotion)
	assert.Equal(t, models.StatusSubmitted, promotion.FromStatus)
	assert.Equal(t, models.StatusExaminersAssigned, promotion.ToStatus)
	assert.Equal(t, models.SlotBookExternalExaminer, result.Assignment.RoleSlot)
	assert.Nil(t, result.SupersededID)
	require.NotNil(t, result.StatusChange)
	assert.Equal(t, []models.Capability{models.CapabilityExaminer}, caps.calls)
	assert.Equal(t, []string{events.TypeAssignmentChanged, events.TypeStatusTransitioned}, publisher.types())
}

func TestAssignmentServiceAssignSupervisorRules(t *testing.T) {
	repo := &registryStub{}
	svc, _ := newAssignmentService(repo, &capabilityStub{})
	ctx := context.Background()

	_, err := svc.Assign(ctx, dto.AssignRequest{TargetID: studentID, RoleSlot: "primary-supervisor", AssigneeID: supervisorA}, "admin-1")
	require.NoError(t, err)
	assert.Nil(t, repo.assignArgs[0].Promotion)

	_, err = svc.Assign(ctx, dto.AssignRequest{TargetID: studentID, RoleSlot: "secondary-supervisor", AssigneeID: supervisorA}, "admin-1")
	assert.ErrorIs(t, err, appErrors.ErrDuplicateRoleAssignment)

	_, err = svc.Assign(ctx, dto.AssignRequest{TargetID: studentID, RoleSlot: "student:primary-supervisor", AssigneeID: supervisorB}, "admin-1")
	assert.ErrorIs(t, err, appErrors.ErrDuplicateRoleAssignment)

	_, err = svc.Assign(ctx, dto.AssignRequest{TargetID: studentID, RoleSlot: "co-supervisor", AssigneeID: supervisorB}, "admin-1")
	assert.Equal(t, "roleSlot", appErrors.FromError(err).Field)
}

func TestAssignmentServiceAssignMissingCapability(t *testing.T) {
	repo := &registryStub{}
	svc, _ := newAssignmentService(repo, &capabilityStub{err: appErrors.Clone(appErrors.ErrMissingCapability, "")})

	_, err := svc.Assign(context.Background(), dto.AssignRequest{TargetID: bookID, RoleSlot: "internal-examiner", AssigneeID: internalExam}, "admin-1")

	assert.ErrorIs(t, err, appErrors.ErrMissingCapability)
	assert.Empty(t, repo.assignArgs)
}

func TestAssignmentServiceChangeSupervisor(t *testing.T) {
	repo := &registryStub{}
	svc, publisher := newAssignmentService(repo, &capabilityStub{})
	ctx := context.Background()
	_, err := svc.Assign(ctx, dto.AssignRequest{TargetID: studentID, RoleSlot: "primary-supervisor", AssigneeID: supervisorA}, "admin-1")
	require.NoError(t, err)

	change := dto.ChangeAssignmentRequest{
		TargetID:      studentID,
		RoleSlot:      "primary-supervisor",
		OldAssigneeID: supervisorA,
		NewAssigneeID: supervisorB,
		Reason:        "conflict of interest",
	}
	result, err := svc.Change(ctx, change, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, supervisorB, result.Assignment.AssigneeID)
	require.NotNil(t, result.SupersededID)
	assert.Equal(t, repo.assignments[0].ID, *result.SupersededID)
	assert.Equal(t, *result.SupersededID, *publisher.published[len(publisher.published)-1].SupersededID)

	history, err := svc.List(ctx, studentID, dto.AssignmentQuery{RoleSlot: "primary-supervisor"})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.False(t, history[0].IsCurrent)
	require.NotNil(t, history[0].EndedAt)
	assert.Equal(t, "conflict of interest", *history[0].EndReason)

	current, err := svc.List(ctx, studentID, dto.AssignmentQuery{CurrentOnly: true})
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, supervisorB, current[0].AssigneeID)

	_, err = svc.Change(ctx, change, "admin-1")
	assert.ErrorIs(t, err, appErrors.ErrNotCurrentAssignment)
}

func TestAssignmentServiceChangeRequiresDifferentAssignee(t *testing.T) {
	svc, _ := newAssignmentService(&registryStub{}, &capabilityStub{})

	_, err := svc.Change(context.Background(), dto.ChangeAssignmentRequest{
		TargetID: studentID, RoleSlot: "primary-supervisor", OldAssigneeID: supervisorA, NewAssigneeID: supervisorA, Reason: "x",
	}, "admin-1")

	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAssignmentServiceRecordGrade(t *testing.T) {
	repo := &registryStub{}
	svc, _ := newAssignmentService(repo, &capabilityStub{})
	ctx := context.Background()
	examiner, err := svc.Assign(ctx, dto.AssignRequest{TargetID: bookID, RoleSlot: "internal-examiner", AssigneeID: internalExam}, "admin-1")
	require.NoError(t, err)
	supervisor, err := svc.Assign(ctx, dto.AssignRequest{TargetID: studentID, RoleSlot: "primary-supervisor", AssigneeID: supervisorA}, "admin-1")
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, examiner.Assignment.ID, dto.RecordGradeRequest{Grade: floatPtr(101)}, "admin-1")
	mapped := appErrors.FromError(err)
	require.NotNil(t, mapped)
	assert.Equal(t, appErrors.ErrInvalidGradeRange.Code, mapped.Code)
	assert.Equal(t, "grade", mapped.Field)
	assert.Zero(t, repo.gradeCalls)

	graded, err := svc.RecordGrade(ctx, examiner.Assignment.ID, dto.RecordGradeRequest{Grade: floatPtr(72.5)}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 72.5, *graded.Grade)

	_, err = svc.RecordGrade(ctx, examiner.Assignment.ID, dto.RecordGradeRequest{Grade: floatPtr(80)}, "admin-1")
	assert.ErrorIs(t, err, appErrors.ErrAlreadyGraded)

	_, err = svc.RecordGrade(ctx, supervisor.Assignment.ID, dto.RecordGradeRequest{Grade: floatPtr(80)}, "admin-1")
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.RecordGrade(ctx, "missing", dto.RecordGradeRequest{Grade: floatPtr(80)}, "admin-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
