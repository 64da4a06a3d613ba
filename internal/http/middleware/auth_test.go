package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phalves/students-api/internal/auth"
)

// echoIdentity is the protected handler under test: it records whether
// it ran and what identity the middleware attached.
func echoIdentity(called *bool, got *auth.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if id, ok := auth.IdentityFromContext(r.Context()); ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func protectedRequest(t *testing.T, tm *auth.TokenManager, authorization string) (*httptest.ResponseRecorder, bool, auth.Identity) {
	t.Helper()

	var called bool
	var identity auth.Identity
	handler := Auth(tm)(echoIdentity(&called, &identity))

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called, identity
}

func newManager(t *testing.T, ttl time.Duration) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("test-secret", ttl)
	require.NoError(t, err)
	return tm
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tm := newManager(t, time.Hour)
	token, err := tm.Issue(7, "ana@x.com")
	require.NoError(t, err)

	rec, called, identity := protectedRequest(t, tm, "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called, "handler must run on a valid token")
	assert.Equal(t, auth.Identity{ID: 7, Email: "ana@x.com"}, identity)
}

func TestAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	rec, called, _ := protectedRequest(t, newManager(t, time.Hour), "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.JSONEq(t, `{"message":"token not provided"}`, rec.Body.String())
}

func TestAuth_RejectionsAreGeneric(t *testing.T) {
	t.Parallel()

	tm := newManager(t, time.Hour)

	valid, err := tm.Issue(7, "ana@x.com")
	require.NoError(t, err)
	tampered := valid[:len(valid)-2] + "xx"

	otherSecret, err := auth.NewTokenManager("other-secret", time.Hour)
	require.NoError(t, err)
	forged, err := otherSecret.Issue(7, "ana@x.com")
	require.NoError(t, err)

	// Every failure mode gets the same status AND the same body: the
	// client must not learn which check rejected it.
	cases := map[string]string{
		"wrong scheme":    "Token " + valid,
		"no scheme":       valid,
		"empty token":     "Bearer ",
		"garbage token":   "Bearer wrongtoken",
		"tampered token":  "Bearer " + tampered,
		"foreign secret":  "Bearer " + forged,
	}

	for name, header := range cases {
		rec, called, _ := protectedRequest(t, tm, header)

		require.Equalf(t, http.StatusUnauthorized, rec.Code, "case %q", name)
		assert.Falsef(t, called, "handler must not run: case %q", name)
		assert.JSONEq(t, `{"message":"invalid or expired token"}`,
			rec.Body.String(), "case %q", name)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	tm := newManager(t, time.Second)
	token, err := tm.Issue(7, "ana@x.com")
	require.NoError(t, err)

	// jwt/v5 applies no leeway by default, so 1.5s after a 1s TTL the
	// token is past its window.
	time.Sleep(1500 * time.Millisecond)

	rec, called, _ := protectedRequest(t, tm, "Bearer "+token)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.JSONEq(t, `{"message":"invalid or expired token"}`, rec.Body.String())
}
