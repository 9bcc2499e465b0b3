package storage

import (
	"context"
	"github.com/skybi/portal-gateway/internal/api/portal/session/storage/inmem"
	"github.com/skybi/portal-gateway/internal/config"
	"testing"
)

func TestOpenInMemory(t *testing.T) {
	driver, err := Open(context.Background(), &config.Config{
		SessionStorage:       config.SessionStorageInMemory,
		SessionCacheLifetime: 0,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer driver.Close()
	if _, ok := driver.(*inmem.Driver); !ok {
		t.Errorf("Open() = %T, want *inmem.Driver", driver)
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{SessionStorage: "etcd"}); err == nil {
		t.Error("Open() error = nil, want an error for an unknown storage")
	}
}
