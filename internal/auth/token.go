package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures, from most to least specific. The HTTP layer
// deliberately collapses all of them into one generic 401 so a caller
// probing the API cannot tell a forged token from an expired one.
var (
	// ErrTokenExpired: the token was valid once but its lifetime is over.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid: parseable but the signature does not check out,
	// or the signing algorithm is not the one we issue with.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenMalformed: not a JWT at all.
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is what an issued token carries: the two identity fields the
// middleware injects into the request context, plus the registered
// claims (of which we only set and check ExpiresAt / IssuedAt).
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
}

// TokenManager signs and verifies the bearer tokens this API issues.
//
// Tokens are stateless: there is no server-side session, no revocation
// list, no refresh. A leaked token stays valid until it expires, and a
// leaked secret invalidates the whole trust boundary — both accepted
// trade-offs of this design.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a TokenManager from the configured signing
// secret and token lifetime. An empty secret is a configuration bug,
// not a runtime condition, so it fails construction.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token manager: signing secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token manager: invalid ttl %v", ttl)
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for the given user, valid for the configured TTL.
func (m *TokenManager) Issue(userID int64, email string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses the token, checks its signature and expiry, and returns
// the embedded claims.
//
// The keyfunc rejects any signing method other than HMAC before the
// signature is checked — otherwise a client could send an alg:none
// token, or an RSA token that tricks the library into using our secret
// as a public key.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
