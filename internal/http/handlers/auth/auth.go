// Package auth (handlers) exposes the two public authentication
// endpoints: user registration and login.
//
// Same closure/factory pattern as the student handlers: each function
// takes its dependencies once at route-registration time and returns
// the http.HandlerFunc the router calls on every request.
//
// These endpoints speak the `{message}` / `{token}` response shapes the
// API has always used — see internal/utils/response.
package authhandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phalves/students-api/internal/auth"
	"github.com/phalves/students-api/internal/storage"
	"github.com/phalves/students-api/internal/types"
	"github.com/phalves/students-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// Register handles POST /auth/register
// Creates a new user account.
//
// Request body (JSON):
//
//	{ "nome": "Ana", "email": "ana@x.com", "senha": "123456" }
//
// Success response (201 Created):
//
//	{ "message": "user created successfully" }
//
// Error responses:
//
//	400 Bad Request — empty/malformed body, missing fields, or email
//	                  already registered
//	500 Internal    — database error
//
// No token is returned: registering and logging in are separate steps.
// ─────────────────────────────────────────────────────────────────────────────
func Register(service *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("registering a user")

		var req types.RegisterRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteMessage(w, http.StatusBadRequest, "request body is empty")
			return
		}
		if err != nil {
			response.WriteMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// All three fields are required; the validate tags on
		// RegisterRequest say so and the validator enforces it.
		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteMessage(w, http.StatusBadRequest,
				response.ValidationError(validateErrs).Error)
			return
		}

		_, err = service.Register(req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateEmail) {
				// Same 400 whether the duplicate was caught by the
				// service's pre-check or by the database constraint.
				response.WriteMessage(w, http.StatusBadRequest,
					"email already registered")
				return
			}

			slog.Error("error registering user", slog.String("error", err.Error()))
			response.WriteMessage(w, http.StatusInternalServerError,
				"could not create user")
			return
		}

		slog.Info("user registered", slog.String("email", req.Email))
		response.WriteMessage(w, http.StatusCreated, "user created successfully")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Login handles POST /auth/login
// Verifies credentials and returns a bearer token.
//
// Request body (JSON):
//
//	{ "email": "ana@x.com", "senha": "123456" }
//
// Success response (200 OK):
//
//	{ "token": "eyJhbGciOiJIUzI1NiIs..." }
//
// Error responses:
//
//	400 Bad Request  — empty/malformed body or missing fields
//	401 Unauthorized — unknown email OR wrong password; the response is
//	                   identical for both so the endpoint cannot be used
//	                   to probe which emails have accounts
//	500 Internal     — database or signing error
//
// ─────────────────────────────────────────────────────────────────────────────
func Login(service *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("logging a user in")

		var req types.LoginRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteMessage(w, http.StatusBadRequest, "request body is empty")
			return
		}
		if err != nil {
			response.WriteMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteMessage(w, http.StatusBadRequest,
				response.ValidationError(validateErrs).Error)
			return
		}

		token, err := service.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				response.WriteMessage(w, http.StatusUnauthorized,
					"invalid email or password")
				return
			}

			slog.Error("error logging user in", slog.String("error", err.Error()))
			response.WriteMessage(w, http.StatusInternalServerError,
				"could not log in")
			return
		}

		// Deliberately no slog of the token itself — a token in the
		// logs is a credential in the logs.
		slog.Info("user logged in", slog.String("email", req.Email))
		response.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}
