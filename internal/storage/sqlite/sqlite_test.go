package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phalves/students-api/internal/config"
	"github.com/phalves/students-api/internal/storage"
	"github.com/phalves/students-api/internal/types"
)

// newTestDB opens a fresh database in a per-test temp directory, so
// tests stay independent and nothing needs cleaning up by hand.
func newTestDB(t *testing.T) *SQLite {
	t.Helper()

	db, err := New(&config.Config{
		StoragePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Db.Close() })

	return db
}

func TestStudentLifecycle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	created, err := db.CreateStudent("Maria", "maria@test.com", "Engenharia")
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := db.GetStudentByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
	assert.Equal(t, "Engenharia", got.Course)

	got.Course = "Medicina"
	updated, err := db.UpdateStudentByID(created.ID, got)
	require.NoError(t, err)
	assert.Equal(t, "Medicina", updated.Course)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) ||
		updated.UpdatedAt.Equal(updated.CreatedAt))

	list, err := db.GetStudents()
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, db.DeleteStudentByID(created.ID))

	_, err = db.GetStudentByID(created.ID)
	require.ErrorIs(t, err, storage.ErrStudentNotFound)
}

func TestStudentNotFoundSentinels(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	_, err := db.GetStudentByID(99)
	require.ErrorIs(t, err, storage.ErrStudentNotFound)

	_, err = db.UpdateStudentByID(99, types.Student{
		Name: "X", Email: "x@test.com", Course: "Y",
	})
	require.ErrorIs(t, err, storage.ErrStudentNotFound)

	require.ErrorIs(t, db.DeleteStudentByID(99), storage.ErrStudentNotFound)
}

func TestGetStudents_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	students, err := db.GetStudents()
	require.NoError(t, err)
	require.NotNil(t, students, "empty result must encode as [] not null")
	assert.Empty(t, students)
}

func TestCreateUser_And_GetUserByEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	created, err := db.CreateUser("Ana", "ana@x.com", "$2a$10$fakehash")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := db.GetUserByEmail("ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)

	// COLLATE NOCASE: lookup matches regardless of case.
	got, err = db.GetUserByEmail("ANA@X.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = db.GetUserByEmail("nobody@x.com")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	_, err := db.CreateUser("Ana", "ana@x.com", "hash1")
	require.NoError(t, err)

	// Exact duplicate and case-variant duplicate both hit the UNIQUE
	// COLLATE NOCASE constraint — the constraint, not any pre-check,
	// is what guarantees no two rows ever share an email.
	_, err = db.CreateUser("Other", "ana@x.com", "hash2")
	require.ErrorIs(t, err, storage.ErrDuplicateEmail)

	_, err = db.CreateUser("Louder", "ANA@X.COM", "hash3")
	require.ErrorIs(t, err, storage.ErrDuplicateEmail)
}
