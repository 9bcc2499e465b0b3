package session

import (
	"context"
	"time"
)

type contextKey struct{}

// Resolver resolves the session of the current execution context.
// Absence of a session is a valid outcome signaling anonymous access and is never reported as an error.
type Resolver interface {
	// Resolve returns the active session, if any
	Resolve(ctx context.Context) (*Session, bool)
}

// Token extracts the bearer token of the session the given resolver yields.
// A nil resolver, a missing session or an empty token all result in absence.
func Token(ctx context.Context, resolver Resolver) (string, bool) {
	if resolver == nil {
		return "", false
	}
	ses, ok := resolver.Resolve(ctx)
	if !ok || ses == nil || ses.AccessToken == "" {
		return "", false
	}
	return ses.AccessToken, true
}

// NewContext returns a copy of ctx carrying the given session
func NewContext(ctx context.Context, ses *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, ses)
}

// FromContext returns the session stored in ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	ses, ok := ctx.Value(contextKey{}).(*Session)
	return ses, ok && ses != nil
}

// RequestResolver resolves the session the session middleware placed into the request context.
// It is used by code running in the server's request/response cycle.
type RequestResolver struct {
	// Now is used to reject sessions that expired after they were loaded; defaults to time.Now
	Now func() time.Time
}

var _ Resolver = RequestResolver{}

// Resolve returns the non-expired session of the request context
func (resolver RequestResolver) Resolve(ctx context.Context) (*Session, bool) {
	ses, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	now := time.Now
	if resolver.Now != nil {
		now = resolver.Now
	}
	if ses.IsExpired(now()) {
		return nil, false
	}
	return ses, true
}

// StaticResolver resolves a fixed bearer token, i.e. one read from a client-side session cache.
// The resulting session carries no roles; authorization is the backend's responsibility.
type StaticResolver struct {
	AccessToken string
}

var _ Resolver = StaticResolver{}

// Resolve returns a session wrapping the static token or nothing if the token is empty
func (resolver StaticResolver) Resolve(_ context.Context) (*Session, bool) {
	if resolver.AccessToken == "" {
		return nil, false
	}
	return &Session{AccessToken: resolver.AccessToken}, true
}
