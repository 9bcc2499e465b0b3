// Package storage selects and opens the session storage driver configured for the portal
package storage

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/api/portal/session/storage/cache"
	"github.com/skybi/portal-gateway/internal/api/portal/session/storage/inmem"
	"github.com/skybi/portal-gateway/internal/api/portal/session/storage/postgres"
	redisdriver "github.com/skybi/portal-gateway/internal/api/portal/session/storage/redis"
	"github.com/skybi/portal-gateway/internal/config"
)

// Initializer is implemented by drivers that have to connect to an external service before they can be used
type Initializer interface {
	// Initialize initializes the storage driver (i.e. opens a database connection)
	Initialize(ctx context.Context) error
}

// Open creates and initializes the session storage driver selected by the configuration.
// Drivers backed by an external service are wrapped in an in-memory lookup cache if a cache lifetime is configured.
func Open(ctx context.Context, cfg *config.Config) (session.Storage, error) {
	var driver session.Storage
	switch cfg.SessionStorage {
	case config.SessionStorageInMemory:
		inmemDriver, err := inmem.New()
		if err != nil {
			return nil, err
		}
		return inmemDriver, nil
	case config.SessionStoragePostgres:
		driver = postgres.New(cfg.PostgresDSN)
	case config.SessionStorageRedis:
		driver = redisdriver.New(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown session storage %q", cfg.SessionStorage)
	}

	if initializer, ok := driver.(Initializer); ok {
		if err := initializer.Initialize(ctx); err != nil {
			driver.Close()
			return nil, fmt.Errorf("initialize %s session storage: %w", cfg.SessionStorage, err)
		}
	}
	if cfg.SessionCacheLifetime > 0 {
		driver = cache.New(driver, cfg.SessionCacheLifetime)
	}
	return driver, nil
}
