package cache

import (
	"context"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/api/portal/session/storage/inmem"
	"testing"
	"time"
)

type countingStorage struct {
	session.Storage
	lookups int
}

func (storage *countingStorage) GetByRawToken(ctx context.Context, rawToken string) (*session.Session, error) {
	storage.lookups++
	return storage.Storage.GetByRawToken(ctx, rawToken)
}

func TestDriverCachesLookups(t *testing.T) {
	underlying, err := inmem.New()
	if err != nil {
		t.Fatalf("inmem.New() error = %v", err)
	}
	counting := &countingStorage{Storage: underlying}
	driver := New(counting, time.Minute)
	defer driver.Close()

	ctx := context.Background()
	raw, err := driver.Create(ctx, &session.Create{
		AccessToken: "t",
		UserID:      "u",
		Expires:     time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		ses, err := driver.GetByRawToken(ctx, raw)
		if err != nil || ses == nil {
			t.Fatalf("GetByRawToken() = %v, %v", ses, err)
		}
	}
	if counting.lookups != 1 {
		t.Errorf("underlying lookups = %d, want 1", counting.lookups)
	}

	if err := driver.TerminateByUserID(ctx, "u"); err != nil {
		t.Fatalf("TerminateByUserID() error = %v", err)
	}
	if ses, _ := driver.GetByRawToken(ctx, raw); ses != nil {
		t.Errorf("GetByRawToken() after termination = %+v, want nil", ses)
	}
	if counting.lookups != 2 {
		t.Errorf("underlying lookups = %d, want 2", counting.lookups)
	}
}

func TestDriverDoesNotCacheMisses(t *testing.T) {
	underlying, _ := inmem.New()
	counting := &countingStorage{Storage: underlying}
	driver := New(counting, time.Minute)
	defer driver.Close()

	for i := 0; i < 2; i++ {
		if ses, _ := driver.GetByRawToken(context.Background(), "missing"); ses != nil {
			t.Fatalf("GetByRawToken() = %+v, want nil", ses)
		}
	}
	if counting.lookups != 2 {
		t.Errorf("underlying lookups = %d, want 2", counting.lookups)
	}
}
