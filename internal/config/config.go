package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"strings"
	"time"
)

// Session storage driver identifiers
const (
	SessionStorageInMemory = "inmem"
	SessionStoragePostgres = "postgres"
	SessionStorageRedis    = "redis"
)

// Config represents the application configuration structure
type Config struct {
	Environment string `default:"development"`

	ListenAddress string `default:":8080" split_words:"true"`
	BaseAddress   string `default:"http://localhost:8080" split_words:"true"`
	AllowedOrigin string `default:"http://localhost:3000" split_words:"true"`

	BackendURL     string        `required:"true" split_words:"true"`
	BackendTimeout time.Duration `default:"20s" split_words:"true"`

	SessionCookieName    string        `default:"session_token" split_words:"true"`
	SessionLifetime      time.Duration `default:"12h" split_words:"true"`
	SessionStorage       string        `default:"inmem" split_words:"true"`
	SessionCacheLifetime time.Duration `default:"1m" split_words:"true"`

	PostgresDSN   string `split_words:"true"`
	RedisAddress  string `default:"localhost:6379" split_words:"true"`
	RedisPassword string `split_words:"true"`
	RedisDB       int    `default:"0" split_words:"true"`

	OIDCProviderURL  string `envconfig:"OIDC_PROVIDER_URL"`
	OIDCClientID     string `envconfig:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `envconfig:"OIDC_CLIENT_SECRET"`
	OIDCRolesClaim   string `envconfig:"OIDC_ROLES_CLAIM" default:"roles"`

	LoginRoute        string `default:"/login" split_words:"true"`
	UnauthorizedRoute string `default:"/unauthorized" split_words:"true"`

	AuthRateLimit  int  `default:"30" split_words:"true"`
	MetricsEnabled bool `default:"true" split_words:"true"`
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.EqualFold(config.Environment, "production")
}

// IsSecure returns whether the portal is served over HTTPS and cookies should be marked as secure
func (config *Config) IsSecure() bool {
	return strings.HasPrefix(strings.ToLower(config.BaseAddress), "https://")
}

// OIDCEnabled returns whether the OIDC login flow is configured
func (config *Config) OIDCEnabled() bool {
	return config.OIDCProviderURL != "" && config.OIDCClientID != ""
}

// CallbackURL returns the absolute URL the OIDC provider redirects to after authentication
func (config *Config) CallbackURL() string {
	return strings.TrimSuffix(config.BaseAddress, "/") + "/api/auth/oidc/callback"
}

// Validate checks the configuration values envconfig cannot check on its own
func (config *Config) Validate() error {
	switch config.SessionStorage {
	case SessionStorageInMemory, SessionStorageRedis:
	case SessionStoragePostgres:
		if config.PostgresDSN == "" {
			return fmt.Errorf("session storage %q requires PG_POSTGRES_DSN to be set", config.SessionStorage)
		}
	default:
		return fmt.Errorf("unknown session storage %q", config.SessionStorage)
	}
	if !strings.HasPrefix(config.BackendURL, "http://") && !strings.HasPrefix(config.BackendURL, "https://") {
		return fmt.Errorf("backend URL %q has to be an absolute http(s) URL", config.BackendURL)
	}
	return nil
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("pg", config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
