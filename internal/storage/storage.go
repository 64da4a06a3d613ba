// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers and the auth service should not know or care which database
// they are talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass a fake/mock that satisfies the interface.
//     No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice.
package storage

import (
	"errors"

	"github.com/phalves/students-api/internal/types"
)

// Sentinel errors every implementation must return for the corresponding
// condition. Callers match them with errors.Is, never by message text.
var (
	// ErrDuplicateEmail: a user with that email already exists. The
	// database's unique constraint is the source of truth here — an
	// application-level pre-check alone would race with a concurrent
	// insert of the same email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound: no user matches the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrStudentNotFound: no student matches the given id.
	ErrStudentNotFound = errors.New("student not found")
)

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateStudent inserts a new student record and returns it with the
	// auto-generated primary-key ID and timestamps filled in.
	CreateStudent(name, email, course string) (types.Student, error)

	// GetStudentByID fetches a single student by their primary key.
	// Returns ErrStudentNotFound if no row matches.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every student in the database.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID replaces the fields of an existing student.
	// Returns the updated record, or ErrStudentNotFound.
	UpdateStudentByID(id int64, student types.Student) (types.Student, error)

	// DeleteStudentByID removes a student record permanently.
	// Returns ErrStudentNotFound if there was nothing to delete.
	DeleteStudentByID(id int64) error

	// CreateUser inserts a new identity record and returns it with the
	// generated ID and timestamps. Returns ErrDuplicateEmail if the
	// email is already taken — including when a concurrent request won
	// the race between the service's pre-check and this insert.
	CreateUser(name, email, passwordHash string) (types.User, error)

	// GetUserByEmail looks a user up by their login key.
	// The match is case-insensitive. Returns ErrUserNotFound on no match.
	GetUserByEmail(email string) (types.User, error)
}
