package authhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phalves/students-api/internal/auth"
	"github.com/phalves/students-api/internal/http/handlers/student"
	"github.com/phalves/students-api/internal/http/middleware"
)

// TestRegisterLoginAccessFlow walks the whole public surface the way a
// client does: register, log in, call a protected route with the token,
// then try again with a bogus one.
func TestRegisterLoginAccessFlow(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	tm, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	service := auth.NewService(store, tm)

	// Same route table shape as cmd/students-api/main.go.
	router := http.NewServeMux()
	router.HandleFunc("POST /auth/register", Register(service))
	router.HandleFunc("POST /auth/login", Login(service))

	protect := middleware.Auth(tm)
	router.Handle("GET /api/students", protect(student.GetList(store)))
	router.Handle("POST /api/students", protect(student.New(store)))

	server := httptest.NewServer(router)
	defer server.Close()

	// 1. Register → 201
	resp, err := http.Post(server.URL+"/auth/register", "application/json",
		strings.NewReader(`{"nome":"Ana","email":"ana@x.com","senha":"123456"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// 2. Login → 200 with a token
	resp, err = http.Post(server.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"ana@x.com","senha":"123456"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	resp.Body.Close()
	require.NotEmpty(t, loginBody.Token)

	// 3. Protected route with the real token → 200
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/students", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+loginBody.Token)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 4. Same request with a bogus token → 401
	req, err = http.NewRequest(http.MethodGet, server.URL+"/api/students", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrongtoken")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// 5. No token at all → 401, and the handler never ran (the student
	//    list is reachable only through the middleware).
	resp, err = http.Get(server.URL + "/api/students")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
