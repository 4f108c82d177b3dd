package localdb

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	store := New(db)
	store.now = func() time.Time { return fixedNow }
	cleanup := func() { db.Close() }
	return store, mock, cleanup
}

func TestMock_UpsertResume_Error(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO resumes (id, owner, name, document, created_at, updated_at)`)).
		WithArgs(sqlmock.AnyArg(), "alice", "base", `{}`, fixedNow, fixedNow).
		WillReturnError(errors.New("disk I/O error"))

	err := store.UpsertResume(context.Background(), "alice", "base", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert resume base")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMock_InsertResume_UniqueViolation(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO resumes`)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	err := store.InsertResume(context.Background(), "alice", "base", []byte(`{}`))
	assert.ErrorIs(t, err, resume.ErrNameConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMock_DuplicateResume_RowsAffected(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`SELECT ?, owner, ?, document, ?, ? FROM resumes WHERE owner = ? AND name = ?`)).
		WithArgs(sqlmock.AnyArg(), "R2", fixedNow, fixedNow, "alice", "R1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	copied, err := store.DuplicateResume(context.Background(), "alice", "R1", "R2")
	require.NoError(t, err)
	assert.False(t, copied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMock_GetResume_Scan(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner, name, document, created_at, updated_at`)).
		WithArgs("alice", "base").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "name", "document", "created_at", "updated_at"}).
			AddRow(id.String(), "alice", "base", `{"summary":"S"}`, fixedNow, fixedNow))

	row, err := store.GetResume(context.Background(), "alice", "base")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, id, row.ID)
	assert.Equal(t, `{"summary":"S"}`, string(row.Document))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMock_ListResumes_QueryError(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM resumes WHERE owner = ? ORDER BY name`)).
		WithArgs("alice").
		WillReturnError(errors.New("database is locked"))

	_, err := store.ListResumes(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMock_CreateUser_Error(t *testing.T) {
	store, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, created_at)`)).
		WithArgs("alice", "hash", fixedNow).
		WillReturnError(errors.New("readonly database"))

	_, err := store.CreateUser(context.Background(), "alice", "hash")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}))
	assert.False(t, isUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}))
	assert.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed")))
}
