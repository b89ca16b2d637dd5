// Package auth issues and verifies bearer tokens. Local accounts get HS256
// JWTs backed by a revocable session; external accounts present an OIDC ID
// token that is verified against the provider and mapped to a local user.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials is returned for a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionRevoked is returned for a well-formed token whose session is gone.
	ErrSessionRevoked = errors.New("session has been revoked or expired")
	// ErrInvalidToken is returned when no authenticator accepts the token.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrNoToken is returned when the request carries no bearer token.
	ErrNoToken = errors.New("no bearer token")
)

// Identity is the verified caller attached to a request context.
type Identity struct {
	UserID    string
	SessionID string // empty for external tokens
	Provider  string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity set by the auth middleware, or nil.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
