// Package middleware contains the access-control middleware that gates
// every protected route.
//
// MIDDLEWARE PATTERN:
// ───────────────────
// A middleware is a function that takes a handler and returns a new
// handler which runs some logic before (or instead of) the wrapped one.
// Because http.Handler is an interface, middlewares compose freely:
//
//	router.Handle("GET /api/students", middleware.Auth(tm)(student.GetList(storage)))
//
// Auth(tm) is called ONCE at startup and captures the token manager;
// the returned wrapper runs on EVERY request to the route.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phalves/students-api/internal/auth"
	"github.com/phalves/students-api/internal/utils/response"
)

// Auth requires a valid `Authorization: Bearer <token>` header.
//
// Outcomes:
//
//	no Authorization header      → 401 { "message": "token not provided" }
//	anything wrong with the token → 401 { "message": "invalid or expired token" }
//	valid token                  → caller identity goes into the request
//	                               context, request proceeds to the handler
//
// All verification failures (bad signature, expired, malformed, wrong
// scheme) share one generic message ON PURPOSE: telling an attacker
// which check failed helps them and nobody else.
//
// The middleware never touches the credential store — the token alone
// is the proof. A user deleted after issuance keeps access until the
// token expires; accepted staleness window of the stateless design.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.WriteMessage(w, http.StatusUnauthorized, "token not provided")
				return
			}

			// "Bearer xyz" → "xyz". A malformed header (no scheme, no
			// space, wrong scheme) yields an empty or garbage token
			// and fails verification naturally below.
			var token string
			if scheme, rest, found := strings.Cut(header, " "); found &&
				strings.EqualFold(scheme, "Bearer") {
				token = rest
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				// Debug, not Warn: expired tokens are everyday noise,
				// and the specific failure must not reach the client.
				slog.Debug("token rejected", slog.String("error", err.Error()))
				response.WriteMessage(w, http.StatusUnauthorized,
					"invalid or expired token")
				return
			}

			// Attach who is calling to the request context so handlers
			// can read it back with auth.IdentityFromContext.
			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				ID:    claims.UserID,
				Email: claims.Email,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
