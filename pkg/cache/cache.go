// Package cache provides generic, thread-safe cache implementations.
//
// Two cache types are offered:
//   - Simple: no eviction policy, entries live until deleted or cleared
//     (used for process-lifetime region snapshots)
//   - TTL: time-to-live eviction with background cleanup
//     (used for the smart-query catalog)
//
// All caches collect statistics unconditionally and can additionally expose
// them as Prometheus metrics via functional options.
package cache

import (
	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

// Cache represents a generic cache parameterized by value type V.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// zero value and false otherwise.
	Get(key string) (V, bool)

	// Set stores a value with the given key. Returns true if a new entry was
	// created, false if an existing one was updated.
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear() error

	// Size returns the current number of entries.
	Size() int

	// Keys returns all keys currently in the cache.
	Keys() []string

	// Stats returns cache statistics. Never nil.
	Stats() *Statistics

	// Close shuts down the cache and releases any background resources.
	Close() error
}

// EvictCallback is called when an entry is evicted from the cache.
type EvictCallback[V any] func(key string, value V)

// validateKey validates a cache key for basic requirements.
func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "validateKey", "empty key rejected")
	}
	return nil
}
