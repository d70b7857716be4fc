package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabhakarm7/sn-graph-sub002/metric"
)

func TestSimple_BasicOperations(t *testing.T) {
	c, err := NewSimple[string]()
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	created, err := c.Set("a", "one")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.Set("a", "two")
	require.NoError(t, err)
	assert.False(t, created, "overwrite should report update")

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Size())
	assert.Equal(t, []string{"a"}, c.Keys())

	deleted, err := c.Delete("a")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, c.Size())
}

func TestSimple_EmptyKeyRejected(t *testing.T) {
	c, err := NewSimple[int]()
	require.NoError(t, err)

	_, err = c.Set("", 1)
	assert.Error(t, err)

	_, err = c.Delete("")
	assert.Error(t, err)
}

func TestSimple_StatsAlwaysOn(t *testing.T) {
	c, err := NewSimple[int]()
	require.NoError(t, err)

	_, _ = c.Set("k", 1)
	c.Get("k")
	c.Get("nope")

	stats := c.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, int64(1), stats.Hits())
	assert.Equal(t, int64(1), stats.Misses())
	assert.Equal(t, int64(1), stats.Sets())
	assert.InDelta(t, 0.5, stats.HitRatio(), 0.001)
}

func TestSimple_EvictionCallbackOnClear(t *testing.T) {
	var evicted []string
	c, err := NewSimple(WithEvictionCallback[int](func(key string, _ int) {
		evicted = append(evicted, key)
	}))
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Set("b", 2)
	require.NoError(t, c.Clear())

	assert.ElementsMatch(t, []string{"a", "b"}, evicted)
	assert.Equal(t, 0, c.Size())
}

func TestTTL_ExpiryOnGet(t *testing.T) {
	c, err := NewTTL[string](context.Background(), 20*time.Millisecond, time.Hour)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, err = c.Set("k", "v")
	require.NoError(t, err)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(30 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "expired entry must not be returned")
	assert.GreaterOrEqual(t, c.Stats().Evictions(), int64(1))
}

func TestTTL_MissAccounting(t *testing.T) {
	c, err := NewTTL[string](context.Background(), 20*time.Millisecond, time.Hour)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses())

	_, err = c.Set("k", "v")
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, int64(2), c.Stats().Misses(), "expired lookup counts as a miss")
	assert.Equal(t, int64(0), c.Stats().Hits())
}

func TestTTL_BackgroundCleanup(t *testing.T) {
	c, err := NewTTL[int](context.Background(), 10*time.Millisecond, 5*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, _ = c.Set("a", 1)
	_, _ = c.Set("b", 2)

	require.Eventually(t, func() bool {
		return c.Size() == 0
	}, time.Second, 5*time.Millisecond, "cleanup loop should evict expired entries")
}

func TestTTL_SetResetsExpiry(t *testing.T) {
	c, err := NewTTL[int](context.Background(), 40*time.Millisecond, time.Hour)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, _ = c.Set("k", 1)
	time.Sleep(25 * time.Millisecond)
	_, _ = c.Set("k", 2)
	time.Sleep(25 * time.Millisecond)

	got, ok := c.Get("k")
	assert.True(t, ok, "rewrite should have reset the TTL")
	assert.Equal(t, 2, got)
}

func TestTTL_InvalidTTL(t *testing.T) {
	_, err := NewTTL[int](context.Background(), 0, time.Second)
	assert.Error(t, err)
}

func TestTTL_CloseIdempotent(t *testing.T) {
	c, err := NewTTL[int](context.Background(), time.Minute, time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestCache_MetricsRegistration(t *testing.T) {
	reg := metric.NewRegistry()

	c, err := NewSimple(WithMetrics[int](reg, "test_cache"))
	require.NoError(t, err)

	_, _ = c.Set("k", 1)
	c.Get("k")

	// Second cache with the same prefix collides on registration
	_, err = NewSimple(WithMetrics[int](reg, "test_cache"))
	assert.Error(t, err)
}
