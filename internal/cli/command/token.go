package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TokenCache represents the client-side session cache of portalctl
type TokenCache struct {
	Server      string `json:"server"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// DefaultTokenFile returns the default location of the token cache
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".portalctl-token.json"
	}
	return filepath.Join(dir, "portalctl", "token.json")
}

// LoadTokenCache reads the token cache; a missing file results in an empty cache
func LoadTokenCache(path string) (*TokenCache, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TokenCache{}, nil
		}
		return nil, err
	}
	cache := new(TokenCache)
	if err := json.Unmarshal(raw, cache); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", path, err)
	}
	return cache, nil
}

// Save writes the token cache, readable by the current user only
func (cache *TokenCache) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// RemoveTokenCache deletes the token cache; a missing file is not an error
func RemoveTokenCache(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
