package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phalves/students-api/internal/storage"
	"github.com/phalves/students-api/internal/types"
)

// ErrInvalidCredentials covers BOTH "no such user" and "wrong password".
// Login never distinguishes the two: a different answer for an unknown
// email would let anyone enumerate which addresses have accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service orchestrates the two authentication flows over the credential
// store and the token manager. It holds no state of its own — both
// dependencies are injected at construction and the flows are stateless
// per call.
type Service struct {
	storage storage.Storage
	tokens  *TokenManager
}

// NewService wires an auth service to its store and token manager.
func NewService(storage storage.Storage, tokens *TokenManager) *Service {
	return &Service{storage: storage, tokens: tokens}
}

// normalizeEmail lowercases the login key so "Ana@x.com" and
// "ana@x.com" are the same account everywhere: lookup, uniqueness
// check, insert, and token claims.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new identity record.
//
// Flow: uniqueness pre-check → hash → insert. The pre-check gives the
// common case a friendly early answer; the database's unique constraint
// is still what closes the race, so a concurrent duplicate insert
// surfaces the same storage.ErrDuplicateEmail from CreateUser.
//
// No token is issued here — the user logs in separately.
func (s *Service) Register(name, email, password string) (types.User, error) {
	email = normalizeEmail(email)

	_, err := s.storage.GetUserByEmail(email)
	if err == nil {
		return types.User{}, storage.ErrDuplicateEmail
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return types.User{}, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return types.User{}, fmt.Errorf("register: hash password: %w", err)
	}

	user, err := s.storage.CreateUser(name, email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return types.User{}, storage.ErrDuplicateEmail
		}
		return types.User{}, fmt.Errorf("register: create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
//
// Both failure paths — unknown email and wrong password — return the
// same ErrInvalidCredentials. No session is stored: the token itself is
// the full proof of authentication for subsequent requests.
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.storage.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: lookup email: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	return token, nil
}
