package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritmo-backend/internal/models"
)

func newSQLMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStoreFromDB(db), mock
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "username", "email", "password_hash", "level", "experience", "gems", "created_at", "updated_at",
	}).AddRow(u.UserID, u.Username, u.Email, u.PasswordHash, u.Level, u.Experience, u.Gems, u.CreatedAt, u.UpdatedAt)
}

func TestPostgresStore_FindByUsername(t *testing.T) {
	s, mock := newSQLMock(t)
	user := models.NewUser("ana", "ana@example.com", "hash")
	user.Gems = 7

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("ana").
		WillReturnRows(userRows(user))

	got, err := s.FindByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, int64(7), got.Gems)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByID_NotFound(t *testing.T) {
	s, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE user_id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostgresStore_FindByEmail_DriverError(t *testing.T) {
	s, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("a@b.co").
		WillReturnError(errors.New("connection reset"))

	_, err := s.FindByEmail(context.Background(), "a@b.co")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestPostgresStore_Save(t *testing.T) {
	s, mock := newSQLMock(t)
	user := models.NewUser("ana", "ana@example.com", "hash")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.UserID, user.Username, user.Email, user.PasswordHash,
			user.Level, user.Experience, user.Gems, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save_UniqueViolation(t *testing.T) {
	s, mock := newSQLMock(t)
	user := models.NewUser("ana", "ana@example.com", "hash")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	assert.ErrorIs(t, s.Save(context.Background(), user), ErrUserExists)
}

func TestPostgresStore_DeleteByID(t *testing.T) {
	s, mock := newSQLMock(t)
	user := models.NewUser("ana", "ana@example.com", "hash")
	user.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM users WHERE user_id = $1 RETURNING`)).
		WithArgs(user.UserID).
		WillReturnRows(userRows(user))

	got, err := s.DeleteByID(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.CreatedAt, got.CreatedAt)
}
