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

var vivaRowColumns = []string{"id", "book_id", "viva_date", "location", "chairperson_id", "minutes_secretary_id", "panelist_ids", "reviewer_ids",
	"internal_mark", "external_mark", "verdict", "status", "is_current", "scheduled_by", "created_at", "graded_at", "superseded_at"}

func vivaScheduleParams() ScheduleVivaParams {
	return ScheduleVivaParams{
		BookID:             "book-1",
		VivaDate:           time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC),
		Location:           "Senate Hall",
		ChairpersonID:      "person-int",
		MinutesSecretaryID: "person-sec",
		PanelistIDs:        []string{"panel-1"},
		ReviewerIDs:        []string{"person-ext"},
		Actor:              "admin-1",
		ExpectedExaminers: map[models.RoleSlot]string{
			models.SlotBookInternalExaminer: "assign-int",
			models.SlotBookExternalExaminer: "assign-ext",
		},
		TargetStatus: models.StatusVivaScheduled,
	}
}

func TestVivaRepositorySchedule(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewVivaRepository(db)

	mock.ExpectBegin()
	expectEntityLock(mock, "books", "book-1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, role_slot FROM assignments")).
		WithArgs("book-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role_slot"}).
			AddRow("assign-int", "book:internal-examiner").
			AddRow("assign-ext", "book:external-examiner"))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE vivas SET is_current = FALSE, superseded_at = $2")).
		WithArgs("book-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vivas")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectTransitionByName(mock, "book", "book-1", models.StatusVivaScheduled, "def-6", "record-5")
	mock.ExpectCommit()

	result, err := repo.Schedule(context.Background(), vivaScheduleParams())
	require.NoError(t, err)
	assert.Nil(t, result.SupersededID)
	assert.Equal(t, models.VivaStatusScheduled, result.Viva.Status)
	assert.Equal(t, "person-int", result.Viva.ChairpersonID)
	assert.Equal(t, models.StatusVivaScheduled, result.Transition.Record.StatusName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVivaRepositoryScheduleDetectsExaminerChange(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewVivaRepository(db)

	mock.ExpectBegin()
	expectEntityLock(mock, "books", "book-1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, role_slot FROM assignments")).
		WithArgs("book-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role_slot"}).
			AddRow("assign-int-2", "book:internal-examiner").
			AddRow("assign-ext", "book:external-examiner"))
	mock.ExpectRollback()

	_, err := repo.Schedule(context.Background(), vivaScheduleParams())
	require.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVivaRepositoryRecordVerdict(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewVivaRepository(db)

	now := time.Now()
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(vivaRowColumns).
			AddRow("viva-1", "book-1", now, "Senate Hall", "person-int", "person-sec", "{panel-1}", "{person-ext}",
				nil, nil, nil, "SCHEDULED", true, "admin-1", now, nil, nil)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM vivas WHERE id = $1")).WithArgs("viva-1").WillReturnRows(row())
	mock.ExpectBegin()
	expectEntityLock(mock, "books", "book-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM vivas WHERE id = $1 FOR UPDATE")).WithArgs("viva-1").WillReturnRows(row())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE vivas SET internal_mark = $2, external_mark = $3, verdict = $4, status = $5, graded_at = $6")).
		WithArgs("viva-1", 80.0, 90.0, "PASS", "COMPLETED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectTransitionByName(mock, "book", "book-1", models.StatusVivaCompleted, "def-7", "record-6")
	mock.ExpectCommit()

	viva, transition, err := repo.RecordVerdict(context.Background(), RecordVivaVerdictParams{
		VivaID: "viva-1", InternalMark: 80, ExternalMark: 90, Verdict: models.VerdictPass,
		Actor: "admin-1", TargetStatus: models.StatusVivaCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.VivaStatusCompleted, viva.Status)
	assert.Equal(t, 80.0, *viva.InternalMark)
	assert.Equal(t, 90.0, *viva.ExternalMark)
	assert.Equal(t, "record-6", *transition.SupersededID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVivaRepositoryRecordVerdictRejectsSupersededViva(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewVivaRepository(db)

	now := time.Now()
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(vivaRowColumns).
			AddRow("viva-0", "book-1", now, "Senate Hall", "person-int", "person-sec", "{panel-1}", "{person-ext}",
				nil, nil, nil, "SUPERSEDED", false, "admin-1", now, nil, now)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM vivas WHERE id = $1")).WithArgs("viva-0").WillReturnRows(row())
	mock.ExpectBegin()
	expectEntityLock(mock, "books", "book-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM vivas WHERE id = $1 FOR UPDATE")).WithArgs("viva-0").WillReturnRows(row())
	mock.ExpectRollback()

	_, _, err := repo.RecordVerdict(context.Background(), RecordVivaVerdictParams{VivaID: "viva-0", Verdict: models.VerdictPass})
	require.ErrorIs(t, err, ErrAlreadyGraded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVivaRepositoryCurrentAndHistory(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewVivaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vivas WHERE book_id = $1 AND is_current")).
		WithArgs("book-1").
		WillReturnRows(sqlmock.NewRows(vivaRowColumns))

	current, err := repo.Current(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Nil(t, current)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM vivas WHERE book_id = $1 ORDER BY seq ASC")).
		WithArgs("book-1").
		WillReturnRows(sqlmock.NewRows(vivaRowColumns).
			AddRow("viva-1", "book-1", now, "Senate Hall", "person-int", "person-sec", "{panel-1}", "{person-ext}",
				"80", "90", "PASS", "COMPLETED", true, "admin-1", now, now, nil))

	history, err := repo.History(context.Background(), "book-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Graded())
	assert.NoError(t, mock.ExpectationsWereMet())
}
