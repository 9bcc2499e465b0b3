package cache

import (
	"context"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/hashmap"
	"github.com/skybi/portal-gateway/internal/secret"
	"time"
)

// Driver represents a session storage driver that wraps another one in order to cache session lookups in memory.
// Only positive lookups are cached and no entry outlives the session it holds.
type Driver struct {
	underlying session.Storage
	cache      *hashmap.ExpiringMap[string, *session.Session]
	lifetime   time.Duration
	now        func() time.Time
}

var _ session.Storage = (*Driver)(nil)

// New returns a new caching session storage driver
func New(underlying session.Storage, lifetime time.Duration) *Driver {
	cache := hashmap.NewExpiring[string, *session.Session](lifetime)
	cache.ScheduleCleanupTask(10 * time.Second)
	return &Driver{
		underlying: underlying,
		cache:      cache,
		lifetime:   lifetime,
		now:        time.Now,
	}
}

// GetByRawToken retrieves a session by its raw token, consulting the cache first
func (driver *Driver) GetByRawToken(ctx context.Context, rawToken string) (*session.Session, error) {
	hash := secret.Hash(rawToken)
	if cached, ok := driver.cache.Lookup(hash); ok {
		if !cached.IsExpired(driver.now()) {
			return cached, nil
		}
		driver.cache.Unset(hash)
	}

	ses, err := driver.underlying.GetByRawToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if ses != nil {
		lifetime := driver.lifetime
		if remaining := time.Unix(ses.Expires, 0).Sub(driver.now()); remaining < lifetime {
			lifetime = remaining
		}
		if lifetime > 0 {
			driver.cache.SetWithLifetime(hash, ses, lifetime)
		}
	}
	return ses, nil
}

// Create creates a new session using the underlying driver
func (driver *Driver) Create(ctx context.Context, create *session.Create) (string, error) {
	return driver.underlying.Create(ctx, create)
}

// TerminateByRawToken terminates a session and evicts it from the cache
func (driver *Driver) TerminateByRawToken(ctx context.Context, rawToken string) error {
	if err := driver.underlying.TerminateByRawToken(ctx, rawToken); err != nil {
		return err
	}
	driver.cache.Unset(secret.Hash(rawToken))
	return nil
}

// TerminateByUserID terminates all sessions of a user and evicts them from the cache
func (driver *Driver) TerminateByUserID(ctx context.Context, userID string) error {
	if err := driver.underlying.TerminateByUserID(ctx, userID); err != nil {
		return err
	}
	driver.cache.UnsetWhere(func(_ string, ses *session.Session) bool {
		return ses.UserID == userID
	})
	return nil
}

// TerminateExpired terminates all expired sessions using the underlying driver
func (driver *Driver) TerminateExpired(ctx context.Context) (int, error) {
	n, err := driver.underlying.TerminateExpired(ctx)
	if err != nil {
		return 0, err
	}
	now := driver.now()
	driver.cache.UnsetWhere(func(_ string, ses *session.Session) bool {
		return ses.IsExpired(now)
	})
	return n, nil
}

// Close stops the cache cleanup task and closes the underlying driver
func (driver *Driver) Close() {
	driver.cache.StopCleanupTask()
	driver.cache.Clear()
	driver.underlying.Close()
}
