// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is fast enough for most projects and trivial to set up.
//
// The blank-ish import below registers the sqlite3 driver with
// database/sql. We also use the package directly to recognise typed
// constraint-violation errors (see CreateUser).
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/phalves/students-api/internal/config"
	"github.com/phalves/students-api/internal/storage"
	"github.com/phalves/students-api/internal/types"

	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at the path specified in cfg.StoragePath,
// creates the tables if they do not already exist, and returns a
// ready-to-use *SQLite.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. If the table already exists nothing happens.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id         INTEGER   PRIMARY KEY AUTOINCREMENT,
			name       TEXT      NOT NULL,
			email      TEXT      NOT NULL,
			course     TEXT      NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create students table: %w", err)
	}

	// COLLATE NOCASE makes the uniqueness check case-insensitive at the
	// database level: "Ana@x.com" and "ana@x.com" are the same account.
	// The constraint — not the auth service's pre-check — is what closes
	// the race between two concurrent registrations of the same email.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER   PRIMARY KEY AUTOINCREMENT,
			name          TEXT      NOT NULL,
			email         TEXT      NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT      NOT NULL,
			created_at    TIMESTAMP NOT NULL,
			updated_at    TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create users table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// CreateStudent inserts a new row into the students table and returns
// the stored record.
//
// Prepared statements use placeholders (?). The database driver sends
// the query and the values separately, so the engine treats the values
// as pure data, never as SQL syntax — no SQL injection.
func (s *SQLite) CreateStudent(name, email, course string) (types.Student, error) {
	stmt, err := s.Db.Prepare(`
		INSERT INTO students (name, email, course, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	// defer ensures the statement is closed when this function returns,
	// even if we return early due to an error. Prevents resource leaks.
	defer stmt.Close()

	now := time.Now().UTC()

	result, err := stmt.Exec(name, email, course, now, now)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return types.Student{
		ID:        lastID,
		Name:      name,
		Email:     email,
		Course:    course,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
//
// QueryRow executes the query and returns a *Row — a single-row result.
// Scan reads the columns from that row into Go variables IN ORDER; the
// order of variables must match the order of columns in SELECT.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, name, email, course, created_at, updated_at
		FROM students WHERE id = ? LIMIT 1
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student

	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Course,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// sql.ErrNoRows is the sentinel for "nothing matched".
			// Translate it into our own sentinel so handlers can map it
			// to a 404 without knowing about database/sql.
			return types.Student{}, storage.ErrStudentNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows as a slice.
//
// Query (unlike QueryRow) returns *sql.Rows — a cursor over multiple
// rows. We iterate with rows.Next() and Scan each row inside the loop.
// Always defer rows.Close() to release the database connection.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, name, email, course, created_at, updated_at FROM students
	`)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.Course,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}

		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// UpdateStudentByID replaces a student's data with the provided values
// and bumps updated_at. Returns the updated student so the caller can
// echo it back to the client.
func (s *SQLite) UpdateStudentByID(id int64, student types.Student) (types.Student, error) {
	stmt, err := s.Db.Prepare(`
		UPDATE students SET name = ?, email = ?, course = ?, updated_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(student.Name, student.Email, student.Course, time.Now().UTC(), id)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	// RowsAffected tells us whether the WHERE clause matched anything.
	// Zero rows touched = the student does not exist.
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, storage.ErrStudentNotFound
	}

	// Re-fetch the record so we return exactly what is stored in the DB.
	return s.GetStudentByID(id)
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

// CreateUser inserts a new identity row.
//
// The UNIQUE constraint on email is enforced here, at insert time, not
// only by the service's pre-check: two concurrent registrations of the
// same email both pass the pre-check, but only one insert survives.
// The loser gets a typed sqlite3.Error which we translate into
// storage.ErrDuplicateEmail.
func (s *SQLite) CreateUser(name, email, passwordHash string) (types.User, error) {
	stmt, err := s.Db.Prepare(`
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return types.User{}, fmt.Errorf("CreateUser: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()

	result, err := stmt.Exec(name, email, passwordHash, now, now)
	if err != nil {
		// errors.As digs the driver's typed error out of any wrapping.
		// ErrConstraintUnique is the extended result code SQLite returns
		// for a UNIQUE violation — the only unique column is email.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return types.User{}, storage.ErrDuplicateEmail
		}
		return types.User{}, fmt.Errorf("CreateUser: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.User{}, fmt.Errorf("CreateUser: last insert id: %w", err)
	}

	return types.User{
		ID:           lastID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetUserByEmail looks up a user by their login key. The comparison is
// case-insensitive because the column is declared COLLATE NOCASE.
func (s *SQLite) GetUserByEmail(email string) (types.User, error) {
	stmt, err := s.Db.Prepare(`
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE email = ? LIMIT 1
	`)
	if err != nil {
		return types.User{}, fmt.Errorf("GetUserByEmail: prepare: %w", err)
	}
	defer stmt.Close()

	var user types.User

	err = stmt.QueryRow(email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, storage.ErrUserNotFound
		}
		return types.User{}, fmt.Errorf("GetUserByEmail: scan: %w", err)
	}

	return user, nil
}
