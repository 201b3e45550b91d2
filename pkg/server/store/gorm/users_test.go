package gorm

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/carevault/carevault/pkg/model"
	"github.com/carevault/carevault/pkg/server/store"
)

func TestUsersStoreGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash"}).
		AddRow(1, "alice", []byte("$2a$12$hash"))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := users.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []byte("$2a$12$hash"), user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreGetByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := users.GetByUsername("ghost")
	assert.Error(t, err)
}

func TestUsersStoreUsernameTaken(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectQuery(`SELECT count`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	assert.True(t, users.UsernameTaken("alice"))

	mock.ExpectQuery(`SELECT count`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	assert.False(t, users.UsernameTaken("ghost"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreCreateUserDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
	mock.ExpectRollback()

	err := users.CreateUser(&model.User{Username: "alice", PasswordHash: []byte("$2a$12$hash")})
	assert.True(t, errors.Is(err, store.ErrDuplicateUsername))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreUpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := users.UpdatePassword(1, []byte("$2a$12$newhash"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreUpdatePasswordMissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := users.UpdatePassword(99, []byte("$2a$12$newhash"))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
