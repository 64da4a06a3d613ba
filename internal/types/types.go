// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, auth, and utils can all import types without
// depending on each other.
package types

import "time"

// Student represents a student record in our system.
//
// The JSON field names are the ones the API has always spoken
// (Portuguese: nome = name, curso = course), so clients keep working.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON.
//     Without this tag Go uses the exported field name, e.g. "Name".
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"  validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Course    string    `json:"curso" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is an identity record: whoever can log in and call the protected
// routes. It is created exactly once (at registration) and never updated
// or deleted by the application.
//
// PasswordHash is the bcrypt digest of the password — the plaintext is
// hashed in the auth service and never stored or logged. The struct has
// no json tags on purpose: a User is never serialised to a client.
type User struct {
	ID           int64
	Name         string
	Email        string // unique, case-insensitive; acts as the login key
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"nome"  validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"senha" validate:"required"`
}
