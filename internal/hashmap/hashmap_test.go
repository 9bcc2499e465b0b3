package hashmap

import (
	"sync"
	"testing"
	"time"
)

func TestNormalMap(t *testing.T) {
	obj := NewNormal[string, int]()
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("c", 3)

	if val, ok := obj.Lookup("b"); !ok || val != 2 {
		t.Errorf("Lookup(b) = %d, %v", val, ok)
	}
	if n := obj.UnsetWhere(func(_ string, val int) bool { return val >= 2 }); n != 2 {
		t.Errorf("UnsetWhere() = %d, want 2", n)
	}
	if obj.Size() != 1 {
		t.Errorf("Size() = %d, want 1", obj.Size())
	}
	if got := obj.Compute("a", func(cur int, ok bool) int { return cur + 10 }); got != 11 {
		t.Errorf("Compute() = %d, want 11", got)
	}
	obj.Clear()
	if _, ok := obj.Lookup("a"); ok {
		t.Error("Lookup after Clear found a value")
	}
}

func TestExpiringMap(t *testing.T) {
	now := time.Unix(1000, 0)
	obj := NewExpiring[string, string](time.Minute)
	obj.now = func() time.Time { return now }

	obj.Set("default", "x")
	obj.SetWithLifetime("short", "y", time.Second)

	if val, ok := obj.Lookup("default"); !ok || val != "x" {
		t.Errorf("Lookup(default) = %q, %v", val, ok)
	}

	now = now.Add(2 * time.Second)
	if _, ok := obj.Lookup("short"); ok {
		t.Error("Lookup(short) returned an expired value")
	}
	if n := obj.Cleanup(); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}

	now = now.Add(time.Minute)
	if _, ok := obj.Lookup("default"); ok {
		t.Error("Lookup(default) returned an expired value")
	}
}

func TestExpiringMapLoadOrStore(t *testing.T) {
	now := time.Unix(1000, 0)
	obj := NewExpiring[string, int](time.Minute)
	obj.now = func() time.Time { return now }

	calls := 0
	create := func() int {
		calls++
		return calls
	}
	if got := obj.LoadOrStore("k", create); got != 1 {
		t.Errorf("LoadOrStore() = %d, want 1", got)
	}
	now = now.Add(30 * time.Second)
	if got := obj.LoadOrStore("k", create); got != 1 {
		t.Errorf("LoadOrStore() = %d, want cached 1", got)
	}
	now = now.Add(2 * time.Minute)
	if got := obj.LoadOrStore("k", create); got != 2 {
		t.Errorf("LoadOrStore() = %d, want 2 after expiry", got)
	}
}

func TestExpiringMapLoadOrStoreRefreshesExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	obj := NewExpiring[string, int](time.Minute)
	obj.now = func() time.Time { return now }

	obj.LoadOrStore("k", func() int { return 7 })
	before, _ := obj.normal.Lookup("k")

	now = now.Add(45 * time.Second)
	obj.LoadOrStore("k", func() int { return 8 })
	after, _ := obj.normal.Lookup("k")
	if after == before {
		t.Error("LoadOrStore() refreshed the stored entry in place, want a replacement")
	}
	if !before.expires.Equal(time.Unix(1060, 0)) {
		t.Errorf("old entry expires = %v, want it untouched", before.expires)
	}

	now = now.Add(45 * time.Second)
	if got, ok := obj.Lookup("k"); !ok || got != 7 {
		t.Errorf("Lookup(k) = %d, %v, want 7, true after the refresh", got, ok)
	}
}

func TestExpiringMapConcurrentAccess(t *testing.T) {
	obj := NewExpiring[string, int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				obj.LoadOrStore("k", func() int { return 1 })
				if got, ok := obj.Lookup("k"); !ok || got != 1 {
					t.Errorf("Lookup(k) = %d, %v, want 1, true", got, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}
