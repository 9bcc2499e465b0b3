package session

import "context"

// Storage defines the session storage API.
// Lookups of unknown sessions return a nil session and a nil error.
type Storage interface {
	// GetByRawToken retrieves a session by its raw (prior hashing) token
	GetByRawToken(ctx context.Context, rawToken string) (*Session, error)

	// Create creates a new session and returns its raw token
	Create(ctx context.Context, create *Create) (string, error)

	// TerminateByRawToken terminates a session by its raw (prior hashing) token
	TerminateByRawToken(ctx context.Context, rawToken string) error

	// TerminateByUserID terminates all sessions of a specific user ID
	TerminateByUserID(ctx context.Context, userID string) error

	// TerminateExpired terminates all sessions that are expired
	TerminateExpired(ctx context.Context) (int, error)

	// Close releases all resources held by the storage
	Close()
}
