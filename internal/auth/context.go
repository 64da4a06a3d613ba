package auth

import "context"

// Identity is who the verified token says is calling. The middleware
// attaches it to the request context; handlers that need to know the
// caller read it back with IdentityFromContext.
type Identity struct {
	ID    int64
	Email string
}

// ctxKey is an unexported type so no other package can collide with
// our context key, even if it stores a value under the same constant.
type ctxKey int

const identityKey ctxKey = 0

// WithIdentity returns a child context carrying the caller's identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the identity the middleware stored.
// ok is false on contexts that never went through the middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
