package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("PG_BACKEND_URL", "http://backend.local/api")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.BackendTimeout != 20*time.Second {
		t.Errorf("BackendTimeout = %v, want 20s", cfg.BackendTimeout)
	}
	if cfg.SessionStorage != SessionStorageInMemory {
		t.Errorf("SessionStorage = %q, want %q", cfg.SessionStorage, SessionStorageInMemory)
	}
	if cfg.LoginRoute != "/login" || cfg.UnauthorizedRoute != "/unauthorized" {
		t.Errorf("routes = %q, %q", cfg.LoginRoute, cfg.UnauthorizedRoute)
	}
	if cfg.OIDCEnabled() {
		t.Error("OIDC should be disabled without a provider URL")
	}
}

func TestLoadFromEnvRequiresBackendURL(t *testing.T) {
	t.Setenv("PG_BACKEND_URL", "")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected an error without a backend URL")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"inmem", Config{SessionStorage: SessionStorageInMemory, BackendURL: "http://b"}, false},
		{"redis", Config{SessionStorage: SessionStorageRedis, BackendURL: "https://b"}, false},
		{"postgres without dsn", Config{SessionStorage: SessionStoragePostgres, BackendURL: "http://b"}, true},
		{"postgres", Config{SessionStorage: SessionStoragePostgres, PostgresDSN: "postgres://x", BackendURL: "http://b"}, false},
		{"unknown storage", Config{SessionStorage: "etcd", BackendURL: "http://b"}, true},
		{"relative backend", Config{SessionStorage: SessionStorageInMemory, BackendURL: "backend:8080"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	cfg := &Config{
		Environment:     "Production",
		BaseAddress:     "https://portal.example.com/",
		OIDCProviderURL: "https://idp.example.com",
		OIDCClientID:    "portal",
	}
	if !cfg.IsEnvProduction() {
		t.Error("IsEnvProduction() = false, want true")
	}
	if !cfg.IsSecure() {
		t.Error("IsSecure() = false, want true")
	}
	if !cfg.OIDCEnabled() {
		t.Error("OIDCEnabled() = false, want true")
	}
	if got, want := cfg.CallbackURL(), "https://portal.example.com/api/auth/oidc/callback"; got != want {
		t.Errorf("CallbackURL() = %q, want %q", got, want)
	}
}
