package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/thesis-workflow-api/internal/models"
)

func TestPersonRepositoryGrantCapabilityIsIdempotent(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM persons WHERE id = $1 AND is_staff")).
		WithArgs("staff-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("staff-1"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO person_capabilities")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	first, created, err := repo.GrantCapability(context.Background(), "staff-1", models.CapabilityPanelist, nil, true)
	require.NoError(t, err)
	assert.True(t, created)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM persons WHERE id = $1 AND is_staff")).
		WithArgs("staff-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("staff-1"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO person_capabilities")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE person_id = $1 AND capability = $2")).
		WithArgs("staff-1", "PANELIST").
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "capability", "examiner_type", "created_at"}).
			AddRow(first.ID, "staff-1", "PANELIST", nil, time.Now()))

	second, created, err := repo.GrantCapability(context.Background(), "staff-1", models.CapabilityPanelist, nil, true)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryGrantCapabilityRejectsDifferentExaminerType(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM persons WHERE id = $1")).
		WithArgs("person-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("person-1"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO person_capabilities")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE person_id = $1 AND capability = $2")).
		WithArgs("person-1", "EXAMINER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "capability", "examiner_type", "created_at"}).
			AddRow("cap-1", "person-1", "EXAMINER", "INTERNAL", time.Now()))

	external := models.ExaminerExternal
	record, created, err := repo.GrantCapability(context.Background(), "person-1", models.CapabilityExaminer, &external, false)
	require.ErrorIs(t, err, ErrCapabilityConflict)
	assert.Nil(t, record)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryGrantCapabilityUnknownStaff(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM persons WHERE id = $1 AND is_staff")).
		WithArgs("external-1").
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.GrantCapability(context.Background(), "external-1", models.CapabilityPanelist, nil, true)
	require.ErrorIs(t, err, ErrPersonNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryHasCapability(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	external := models.ExaminerExternal
	mock.ExpectQuery(regexp.QuoteMeta("WHERE person_id = $1 AND capability = $2 AND examiner_type = $3)")).
		WithArgs("person-1", "EXAMINER", "EXTERNAL").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.HasCapability(context.Background(), "person-1", models.CapabilityExaminer, &external)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE person_id = $1 AND capability = $2)")).
		WithArgs("person-1", "SUPERVISOR").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err = repo.HasCapability(context.Background(), "person-1", models.CapabilitySupervisor, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newWorkflowRepoMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO persons")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	staffNumber := "S-100"
	person := &models.Person{FullName: "Dr. Okafor", StaffNumber: &staffNumber, IsStaff: true}
	require.NoError(t, repo.Create(context.Background(), person))
	require.NotEmpty(t, person.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM persons WHERE id = $1")).
		WithArgs(person.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "staff_number", "institution", "is_staff", "created_at"}).
			AddRow(person.ID, "Dr. Okafor", "", "S-100", "", true, time.Now()))
	found, err := repo.FindByID(context.Background(), person.ID)
	require.NoError(t, err)
	require.NotNil(t, found.StaffNumber)
	assert.Equal(t, "S-100", *found.StaffNumber)

	mock.ExpectQuery(regexp.QuoteMeta("FROM person_capabilities")).
		WithArgs(person.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_id", "capability", "examiner_type", "created_at"}).
			AddRow("cap-1", person.ID, "EXAMINER", "INTERNAL", time.Now()))
	caps, err := repo.Capabilities(context.Background(), person.ID)
	require.NoError(t, err)
	require.Len(t, caps, 1)
	assert.Equal(t, models.ExaminerInternal, *caps[0].ExaminerType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
