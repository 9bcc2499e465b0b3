package inmem

import (
	"context"
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"testing"
	"time"
)

func newTestDriver(t *testing.T, now *time.Time) *Driver {
	t.Helper()
	driver, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	driver.now = func() time.Time { return *now }
	return driver
}

func TestCreateAndGet(t *testing.T) {
	now := time.Unix(1000, 0)
	driver := newTestDriver(t, &now)
	ctx := context.Background()

	raw, err := driver.Create(ctx, &session.Create{
		AccessToken: "backend-token",
		UserID:      "user-1",
		Email:       "jane@example.com",
		Roles:       []string{"COMPANY_ADMIN"},
		Expires:     2000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ses, err := driver.GetByRawToken(ctx, raw)
	if err != nil {
		t.Fatalf("GetByRawToken() error = %v", err)
	}
	if ses == nil || ses.AccessToken != "backend-token" || ses.UserID != "user-1" {
		t.Fatalf("GetByRawToken() = %+v", ses)
	}
	if ses.Token == raw {
		t.Error("storage must not keep the raw token")
	}

	if ses, _ := driver.GetByRawToken(ctx, "unknown"); ses != nil {
		t.Errorf("GetByRawToken(unknown) = %+v, want nil", ses)
	}

	now = time.Unix(2000, 0)
	if ses, _ := driver.GetByRawToken(ctx, raw); ses != nil {
		t.Errorf("GetByRawToken() returned an expired session: %+v", ses)
	}
}

func TestTerminate(t *testing.T) {
	now := time.Unix(1000, 0)
	driver := newTestDriver(t, &now)
	ctx := context.Background()

	create := func(userID string, expires int64) string {
		raw, err := driver.Create(ctx, &session.Create{AccessToken: "t", UserID: userID, Expires: expires})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return raw
	}
	a1 := create("a", 5000)
	a2 := create("a", 5000)
	b1 := create("b", 5000)
	create("b", 1500)
	create("c", 1200)

	if err := driver.TerminateByRawToken(ctx, b1); err != nil {
		t.Fatalf("TerminateByRawToken() error = %v", err)
	}
	if ses, _ := driver.GetByRawToken(ctx, b1); ses != nil {
		t.Error("session b1 still exists")
	}

	if err := driver.TerminateByUserID(ctx, "a"); err != nil {
		t.Fatalf("TerminateByUserID() error = %v", err)
	}
	for _, raw := range []string{a1, a2} {
		if ses, _ := driver.GetByRawToken(ctx, raw); ses != nil {
			t.Error("session of user a still exists")
		}
	}

	now = time.Unix(1600, 0)
	n, err := driver.TerminateExpired(ctx)
	if err != nil {
		t.Fatalf("TerminateExpired() error = %v", err)
	}
	if n != 2 {
		t.Errorf("TerminateExpired() = %d, want 2", n)
	}
}
