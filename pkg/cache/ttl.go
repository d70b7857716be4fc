package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

// ttlEntry represents an entry in the TTL cache.
type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e *ttlEntry[V]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// ttlCache is a thread-safe time-to-live cache. Entries are evicted lazily on
// Get and proactively by a background cleanup goroutine.
type ttlCache[V any] struct {
	mu              sync.RWMutex
	ttl             time.Duration
	cleanupInterval time.Duration
	items           map[string]*ttlEntry[V]
	stats           *Statistics
	metrics         *cacheMetrics
	evictFn         EvictCallback[V]

	shutdown chan struct{}
	done     chan struct{}
}

// NewTTL creates a time-to-live cache. The background cleanup goroutine stops
// when ctx is cancelled or Close is called. A cleanupInterval of zero defaults
// to ttl/2.
func NewTTL[V any](ctx context.Context, ttl, cleanupInterval time.Duration, options ...Option[V]) (Cache[V], error) {
	if ttl <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "NewTTL", "ttl must be positive")
	}
	if cleanupInterval <= 0 {
		cleanupInterval = ttl / 2
	}

	opts := applyOptions(options...)

	var metrics *cacheMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "cache", "NewTTL", "metrics registration")
		}
	}

	c := &ttlCache[V]{
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		items:           make(map[string]*ttlEntry[V]),
		stats:           NewStatistics(),
		metrics:         metrics,
		evictFn:         opts.evictCallback,
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
	}

	go c.cleanup(ctx)

	return c, nil
}

// Get retrieves a value by key, evicting it if expired.
func (c *ttlCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		var zero V
		return zero, false
	}

	if entry.isExpired() {
		c.mu.Lock()
		// Re-check under the write lock
		if current, still := c.items[key]; still && current.isExpired() {
			delete(c.items, key)
			c.stats.Eviction()
			c.stats.UpdateSize(int64(len(c.items)))
			if c.metrics != nil {
				c.metrics.recordEviction()
				c.metrics.updateSize(len(c.items))
			}
			if c.evictFn != nil {
				defer c.evictFn(key, current.value)
			}
		}
		c.mu.Unlock()

		c.recordMiss()
		var zero V
		return zero, false
	}

	c.stats.Hit()
	if c.metrics != nil {
		c.metrics.recordHit()
	}
	return entry.value, true
}

func (c *ttlCache[V]) recordMiss() {
	c.stats.Miss()
	if c.metrics != nil {
		c.metrics.recordMiss()
	}
}

// Set stores a value, resetting its expiry to now+ttl.
func (c *ttlCache[V]) Set(key string, value V) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	_, exists := c.items[key]
	c.items[key] = &ttlEntry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	size := len(c.items)
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.recordSet()
		c.metrics.updateSize(size)
	}

	return !exists, nil
}

// Delete removes an entry by key.
func (c *ttlCache[V]) Delete(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	entry, exists := c.items[key]
	if exists {
		delete(c.items, key)
	}
	size := len(c.items)
	c.mu.Unlock()

	if exists {
		c.stats.Delete()
		c.stats.UpdateSize(int64(size))
		if c.metrics != nil {
			c.metrics.recordDelete()
			c.metrics.updateSize(size)
		}
		if c.evictFn != nil {
			c.evictFn(key, entry.value)
		}
	}

	return exists, nil
}

// Clear removes all entries from the cache.
func (c *ttlCache[V]) Clear() error {
	c.mu.Lock()
	evicted := c.items
	c.items = make(map[string]*ttlEntry[V])
	c.mu.Unlock()

	c.stats.UpdateSize(0)
	if c.metrics != nil {
		c.metrics.updateSize(0)
	}
	if c.evictFn != nil {
		for key, entry := range evicted {
			c.evictFn(key, entry.value)
		}
	}

	return nil
}

// Size returns the current number of entries, including not-yet-collected
// expired ones.
func (c *ttlCache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Keys returns all keys currently in the cache.
func (c *ttlCache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns cache statistics.
func (c *ttlCache[V]) Stats() *Statistics {
	return c.stats
}

// Close stops the background cleanup goroutine.
func (c *ttlCache[V]) Close() error {
	select {
	case <-c.shutdown:
		// Already closed
	default:
		close(c.shutdown)
	}
	<-c.done
	return nil
}

// cleanup periodically removes expired entries.
func (c *ttlCache[V]) cleanup(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdown:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ttlCache[V]) evictExpired() {
	type evicted[V any] struct {
		key   string
		value V
	}

	var removed []evicted[V]

	c.mu.Lock()
	for key, entry := range c.items {
		if entry.isExpired() {
			delete(c.items, key)
			removed = append(removed, evicted[V]{key: key, value: entry.value})
		}
	}
	size := len(c.items)
	c.mu.Unlock()

	if len(removed) == 0 {
		return
	}

	for range removed {
		c.stats.Eviction()
	}
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		for range removed {
			c.metrics.recordEviction()
		}
		c.metrics.updateSize(size)
	}
	if c.evictFn != nil {
		for _, e := range removed {
			c.evictFn(e.key, e.value)
		}
	}
}
