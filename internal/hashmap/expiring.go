package hashmap

import (
	"github.com/skybi/portal-gateway/internal/task"
	"time"
)

type expiringEntry[T any] struct {
	raw     T
	expires time.Time
}

// ExpiringMap implements the Map interface and wraps the standard NormalMap in order to implement value expiration.
// Expired values are never returned by Lookup; they are physically removed by the cleanup task.
type ExpiringMap[K comparable, V any] struct {
	normal      *NormalMap[K, *expiringEntry[V]]
	lifetime    time.Duration
	cleanupTask *task.RepeatingTask
	now         func() time.Time
}

var _ Map[int, any] = (*ExpiringMap[int, any])(nil)

// NewExpiring creates a new expiring map whose values exist for a specific default lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		normal:   NewNormal[K, *expiringEntry[V]](),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// ScheduleCleanupTask schedules the task that cleans up expired values in a specific interval.
// StopCleanupTask has to be called as soon as the map is no longer needed.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		obj.Cleanup()
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(false)
	obj.cleanupTask = nil
}

// Cleanup removes all expired values and returns their amount
func (obj *ExpiringMap[K, V]) Cleanup() int {
	now := obj.now()
	return obj.normal.UnsetWhere(func(_ K, val *expiringEntry[V]) bool {
		return !now.Before(val.expires)
	})
}

// Size returns the amount of stored key-value pairs, including expired ones not cleaned up yet
func (obj *ExpiringMap[K, V]) Size() int {
	return obj.normal.Size()
}

// Lookup returns the value assigned to the given key and a boolean indicating if a non-expired value was found
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	val, ok := obj.normal.Lookup(key)
	if !ok || !obj.now().Before(val.expires) {
		var zero V
		return zero, false
	}
	return val.raw, true
}

// Set sets a key-value pair using the default lifetime
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.SetWithLifetime(key, value, obj.lifetime)
}

// SetWithLifetime sets a key-value pair that expires after the given lifetime
func (obj *ExpiringMap[K, V]) SetWithLifetime(key K, value V, lifetime time.Duration) {
	obj.normal.Set(key, &expiringEntry[V]{
		raw:     value,
		expires: obj.now().Add(lifetime),
	})
}

// Unset deletes the value assigned to given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.normal.Unset(key)
}

// UnsetWhere deletes all key-value pairs matching the given predicate and returns the amount of deleted pairs
func (obj *ExpiringMap[K, V]) UnsetWhere(predicate func(key K, value V) bool) int {
	return obj.normal.UnsetWhere(func(key K, val *expiringEntry[V]) bool {
		return predicate(key, val.raw)
	})
}

// Clear clears the whole map
func (obj *ExpiringMap[K, V]) Clear() {
	obj.normal.Clear()
}

// LoadOrStore returns the non-expired value assigned to the given key or stores and returns the one built by create.
// The expiry of an existing value is refreshed. Entries are never mutated once stored; a refresh replaces them.
func (obj *ExpiringMap[K, V]) LoadOrStore(key K, create func() V) V {
	now := obj.now()
	entry := obj.normal.Compute(key, func(current *expiringEntry[V], ok bool) *expiringEntry[V] {
		if ok && now.Before(current.expires) {
			return &expiringEntry[V]{
				raw:     current.raw,
				expires: now.Add(obj.lifetime),
			}
		}
		return &expiringEntry[V]{
			raw:     create(),
			expires: now.Add(obj.lifetime),
		}
	})
	return entry.raw
}
