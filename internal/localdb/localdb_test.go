package localdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/resumes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStore opens a fresh database in a temp directory
func createTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	store := createTestStore(t)
	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestUpsertResume_ReplacesDocument(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertResume(ctx, "alice", "base", []byte(`{"summary":"A"}`)))
	first, err := store.GetResume(ctx, "alice", "base")
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, store.UpsertResume(ctx, "alice", "base", []byte(`{"skills":"B"}`)))
	second, err := store.GetResume(ctx, "alice", "base")
	require.NoError(t, err)

	assert.Equal(t, `{"skills":"B"}`, string(second.Document))
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestInsertResume_Conflict(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertResume(ctx, "alice", "base", []byte(`{}`)))
	require.NoError(t, store.InsertResume(ctx, "bob", "base", []byte(`{}`)), "names are unique per owner only")

	err := store.InsertResume(ctx, "alice", "base", []byte(`{}`))
	var conflict *resume.NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "alice", conflict.Owner)
}

func TestDuplicateResume(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertResume(ctx, "alice", "R1", []byte(`{"summary":"S"}`)))

	copied, err := store.DuplicateResume(ctx, "alice", "R1", "R2")
	require.NoError(t, err)
	assert.True(t, copied)

	copied, err = store.DuplicateResume(ctx, "alice", "missing", "R3")
	require.NoError(t, err)
	assert.False(t, copied)

	_, err = store.DuplicateResume(ctx, "alice", "R1", "R2")
	assert.ErrorIs(t, err, resume.ErrNameConflict)

	rows, err := store.ListResumes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "R1", rows[0].Name)
	assert.Equal(t, "R2", rows[1].Name)
	assert.Equal(t, rows[0].Document, rows[1].Document)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
}

func TestDeleteResume_Missing(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteResume(ctx, "alice", "missing"))

	require.NoError(t, store.UpsertResume(ctx, "alice", "gone", []byte(`{}`)))
	require.NoError(t, store.DeleteResume(ctx, "alice", "gone"))
	row, err := store.GetResume(ctx, "alice", "gone")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestUsers(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "alice", "hash1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.CreateUser(ctx, "alice", "hash2")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "hash1", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())

	user, err = store.GetUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestStoreWithService(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()
	svc := resumes.NewService(store)

	d, err := resume.NormalizeJSON([]byte(`{"experience": [{"company": "Acme", "present": true}], "theme": "dark"}`))
	require.NoError(t, err)

	_, err = svc.Save(ctx, "alice", "X", d)
	require.NoError(t, err)

	records, err := svc.LoadAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "X", records[0].Name)
	assert.Equal(t, d, records[0].Document)
}
