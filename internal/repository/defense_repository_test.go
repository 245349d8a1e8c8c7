package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

var defenseRowColumns = []string{"id", "proposal_id", "scheduled_date", "venue", "panelist_ids", "verdict", "verdict_recorded_at", "is_current", "scheduled_by", "created_at", "superseded_at"}

func TestDefenseRepositoryScheduleSupersedesPrior(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewDefenseRepository(db)

	mock.ExpectBegin()
	expectEntityLock(mock, "proposals", "proposal-1")
	expectCurrentStatusName(mock, "proposal", "proposal-1", models.StatusDefenseScheduled)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE defenses SET is_current = FALSE, superseded_at = $2")).
		WithArgs("proposal-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("defense-old"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO defenses")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectTransitionByName(mock, "proposal", "proposal-1", models.StatusDefenseScheduled, "def-3", "record-3")
	mock.ExpectCommit()

	date := time.Date(2024, 9, 10, 9, 0, 0, 0, time.UTC)
	result, err := repo.Schedule(context.Background(), ScheduleDefenseParams{
		ProposalID:      "proposal-1",
		ScheduledDate:   date,
		Venue:           "Room 4",
		PanelistIDs:     []string{"panel-1", "panel-2"},
		Actor:           "admin-1",
		AllowedStatuses: []string{models.StatusSubmitted, models.StatusDefenseScheduled},
		TargetStatus:    models.StatusDefenseScheduled,
	})
	require.NoError(t, err)
	require.NotNil(t, result.SupersededID)
	assert.Equal(t, "defense-old", *result.SupersededID)
	assert.True(t, result.Defense.IsCurrent)
	assert.Equal(t, date, result.Defense.ScheduledDate)
	assert.Equal(t, "record-3", *result.Transition.SupersededID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDefenseRepositoryScheduleRequiresSubmittedProposal(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewDefenseRepository(db)

	mock.ExpectBegin()
	expectEntityLock(mock, "proposals", "proposal-1")
	expectCurrentStatusName(mock, "proposal", "proposal-1", models.StatusDefenseCompleted)
	mock.ExpectRollback()

	_, err := repo.Schedule(context.Background(), ScheduleDefenseParams{
		ProposalID:      "proposal-1",
		ScheduledDate:   time.Now(),
		PanelistIDs:     []string{"panel-1"},
		AllowedStatuses: []string{models.StatusSubmitted, models.StatusDefenseScheduled},
		TargetStatus:    models.StatusDefenseScheduled,
	})
	require.ErrorIs(t, err, ErrStatusMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDefenseRepositoryRecordVerdict(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewDefenseRepository(db)

	now := time.Now()
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(defenseRowColumns).
			AddRow("defense-1", "proposal-1", now, "Room 4", "{panel-1}", nil, nil, true, "admin-1", now, nil)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM defenses WHERE id = $1")).
		WithArgs("defense-1").
		WillReturnRows(row())
	mock.ExpectBegin()
	expectEntityLock(mock, "proposals", "proposal-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM defenses WHERE id = $1 FOR UPDATE")).
		WithArgs("defense-1").
		WillReturnRows(row())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE defenses SET verdict = $2, verdict_recorded_at = $3 WHERE id = $1")).
		WithArgs("defense-1", "PASS_WITH_MINOR_CORRECTIONS", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectTransitionByName(mock, "proposal", "proposal-1", models.StatusDefenseCompleted, "def-4", "record-3")
	mock.ExpectCommit()

	defense, transition, err := repo.RecordVerdict(context.Background(), RecordDefenseVerdictParams{
		DefenseID:    "defense-1",
		Verdict:      models.VerdictPassWithMinorCorrections,
		Actor:        "admin-1",
		TargetStatus: models.StatusDefenseCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, defense.Verdict)
	assert.Equal(t, models.VerdictPassWithMinorCorrections, *defense.Verdict)
	assert.Equal(t, []string{"panel-1"}, []string(defense.PanelistIDs))
	assert.Equal(t, models.StatusDefenseCompleted, transition.Record.StatusName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDefenseRepositoryRecordVerdictAlreadyMarked(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewDefenseRepository(db)

	now := time.Now()
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(defenseRowColumns).
			AddRow("defense-1", "proposal-1", now, "Room 4", "{panel-1}", "FAIL", now, true, "admin-1", now, nil)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM defenses WHERE id = $1")).WithArgs("defense-1").WillReturnRows(row())
	mock.ExpectBegin()
	expectEntityLock(mock, "proposals", "proposal-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM defenses WHERE id = $1 FOR UPDATE")).WithArgs("defense-1").WillReturnRows(row())
	mock.ExpectRollback()

	_, _, err := repo.RecordVerdict(context.Background(), RecordDefenseVerdictParams{DefenseID: "defense-1", Verdict: models.VerdictPass})
	require.ErrorIs(t, err, ErrAlreadyGraded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDefenseRepositoryHistory(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewDefenseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM defenses WHERE proposal_id = $1 ORDER BY seq ASC")).
		WithArgs("proposal-1").
		WillReturnRows(sqlmock.NewRows(defenseRowColumns).
			AddRow("defense-0", "proposal-1", now.Add(-48*time.Hour), "Room 1", "{panel-1}", nil, nil, false, "admin-1", now, now).
			AddRow("defense-1", "proposal-1", now, "Room 4", "{panel-1,panel-2}", nil, nil, true, "admin-1", now, nil))

	history, err := repo.History(context.Background(), "proposal-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.NotNil(t, history[0].SupersededAt)
	assert.Len(t, history[1].PanelistIDs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
