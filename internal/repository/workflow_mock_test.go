package repository

import (
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newWorkflowRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var definitionRowColumns = []string{"id", "name", "description", "expected_duration_days", "warning_days", "critical_days", "delay_days", "notify_roles", "color", "is_active", "created_at", "updated_at"}

func definitionRows(id, name string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(definitionRowColumns).
		AddRow(id, name, "", nil, nil, nil, nil, "{ADMIN}", "#000000", active, now, now)
}

func expectEntityLock(mock sqlmock.Sqlmock, table, id string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM "+table+" WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
}

// expectTransitionByName primes the definition lookup, the current flip and the insert.
func expectTransitionByName(mock sqlmock.Sqlmock, entityType, entityID, status, definitionID string, superseded ...string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM status_definitions WHERE name = $1")).
		WithArgs(status).
		WillReturnRows(definitionRows(definitionID, status, true))
	expectFlipAndInsert(mock, entityType, entityID, superseded...)
}

func expectFlipAndInsert(mock sqlmock.Sqlmock, entityType, entityID string, superseded ...string) {
	flipped := sqlmock.NewRows([]string{"id"})
	for _, id := range superseded {
		flipped.AddRow(id)
	}
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE status_records SET is_current = FALSE")).
		WithArgs(entityType, entityID).
		WillReturnRows(flipped)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO status_records")).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func expectCurrentStatusName(mock sqlmock.Sqlmock, entityType, entityID string, names ...string) {
	rows := sqlmock.NewRows([]string{"name"})
	for _, name := range names {
		rows.AddRow(name)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sd.name FROM status_records sr")).
		WithArgs(entityType, entityID).
		WillReturnRows(rows)
}
