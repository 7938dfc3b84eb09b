package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/engagebot/timetable-api/internal/models"
)

func newProfileRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProfileRepositoryEnsureForUserCreatesWhenMissing(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectQuery("SELECT id, user_id, .+ FROM teacher_profiles WHERE user_id = \\$1").
		WithArgs("usr-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO teacher_profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile, err := repo.EnsureForUser(context.Background(), "usr-1")
	require.NoError(t, err)
	require.Equal(t, "usr-1", profile.UserID)
	require.True(t, profile.Active)
	require.NotEmpty(t, profile.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryTouch(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	ts := time.Date(2024, 9, 4, 10, 30, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE teacher_profiles\s+SET last_active = \$2, total_queries = total_queries \+ 1`).
		WithArgs("usr-1", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Touch(context.Background(), "usr-1", ts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryCountByActive(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"active", "count"}).
		AddRow(true, 8).
		AddRow(false, 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT active, COUNT(*) AS count FROM teacher_profiles GROUP BY active")).
		WillReturnRows(rows)

	active, inactive, err := repo.CountByActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8, active)
	require.Equal(t, 2, inactive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryTopByQueries(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "username", "email", "total_queries"}).
		AddRow("usr-1", "rao", "rao@example.com", 42)
	mock.ExpectQuery(`ORDER BY p\.total_queries DESC, u\.username\s+LIMIT \$2`).
		WithArgs(models.RoleTeacher, 5).
		WillReturnRows(rows)

	top, err := repo.TopByQueries(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, 42, top[0].TotalQueries)
	require.NoError(t, mock.ExpectationsWereMet())
}
