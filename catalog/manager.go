package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/metric"
	"github.com/prabhakarm7/sn-graph-sub002/pkg/cache"
)

// DefaultTTL is how long a loaded catalog stays cached before the next List
// or Get refreshes it.
const DefaultTTL = 5 * time.Minute

// cacheKey is the single slot the catalog occupies in its TTL cache.
const cacheKey = "catalog"

// Manager serves smart-query lookups from a TTL-cached catalog snapshot and
// applies administrative mutations with eager invalidation.
type Manager struct {
	source  Source
	admin   Admin
	cache   cache.Cache[*Catalog]
	metrics *Metrics
	logger  *slog.Logger
}

// Deps holds runtime dependencies for the catalog manager.
type Deps struct {
	Source   Source           // required; typically a TieredSource
	Admin    Admin            // optional; mutations fail without it
	TTL      time.Duration    // optional; defaults to DefaultTTL
	Registry *metric.Registry // optional
	Logger   *slog.Logger     // optional
}

// NewManager creates a catalog manager. The ctx bounds the TTL cache's
// cleanup goroutine.
func NewManager(ctx context.Context, deps Deps) (*Manager, error) {
	if deps.Source == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "Catalog", "NewManager",
			"source dependency required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	catalogCache, err := cache.NewTTL[*Catalog](ctx, ttl, ttl/2)
	if err != nil {
		return nil, errors.WrapTransient(err, "Catalog", "NewManager", "cache construction")
	}

	m := &Manager{
		source: deps.Source,
		admin:  deps.Admin,
		cache:  catalogCache,
		logger: logger,
	}
	if deps.Registry != nil {
		m.metrics = NewMetrics(deps.Registry)
	}
	return m, nil
}

// List returns every smart query in the active catalog.
func (m *Manager) List(ctx context.Context) ([]SmartQuery, error) {
	loaded, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	return loaded.Queries, nil
}

// Get returns the smart query with the given ID.
func (m *Manager) Get(ctx context.Context, id string) (*SmartQuery, error) {
	loaded, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	if q := loaded.Get(id); q != nil {
		return q, nil
	}
	return nil, errors.WrapInvalid(errors.ErrQueryNotFound, "Catalog", "Get", "id "+id)
}

// Metadata returns the active catalog's version metadata.
func (m *Manager) Metadata(ctx context.Context) (*Metadata, error) {
	loaded, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	meta := loaded.Metadata
	return &meta, nil
}

// Upsert admits and stores a definition, then invalidates the cache so the
// next read observes the hot-swapped catalog.
func (m *Manager) Upsert(ctx context.Context, q *SmartQuery) error {
	if err := Admit(q); err != nil {
		if m.metrics != nil {
			m.metrics.RecordMutation("upsert", false)
		}
		return err
	}
	if m.admin == nil {
		return errors.WrapFatal(errors.ErrMissingConfig, "Catalog", "Upsert",
			"admin source not configured")
	}

	if err := m.admin.Upsert(ctx, q); err != nil {
		if m.metrics != nil {
			m.metrics.RecordMutation("upsert", false)
		}
		return errors.Wrap(err, "Catalog", "Upsert", "remote mutation")
	}

	m.Invalidate()
	if m.metrics != nil {
		m.metrics.RecordMutation("upsert", true)
	}
	m.logger.Info("smart query upserted", "id", q.ID)
	return nil
}

// Delete removes a definition, then invalidates the cache.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if m.admin == nil {
		return errors.WrapFatal(errors.ErrMissingConfig, "Catalog", "Delete",
			"admin source not configured")
	}

	if err := m.admin.Delete(ctx, id); err != nil {
		if m.metrics != nil {
			m.metrics.RecordMutation("delete", false)
		}
		return errors.Wrap(err, "Catalog", "Delete", "remote mutation")
	}

	m.Invalidate()
	if m.metrics != nil {
		m.metrics.RecordMutation("delete", true)
	}
	m.logger.Info("smart query deleted", "id", id)
	return nil
}

// Invalidate drops the cached catalog, forcing a reload on next access.
func (m *Manager) Invalidate() {
	if _, err := m.cache.Delete(cacheKey); err != nil {
		m.logger.Warn("catalog invalidation failed", "error", err)
	}
}

// Close releases the TTL cache's background resources.
func (m *Manager) Close() error {
	return m.cache.Close()
}

// load serves the catalog from cache, refreshing it from the source on miss.
func (m *Manager) load(ctx context.Context) (*Catalog, error) {
	if cached, ok := m.cache.Get(cacheKey); ok {
		if m.metrics != nil {
			m.metrics.RecordLoad("cache", 0)
		}
		return cached, nil
	}

	start := time.Now()
	loaded, err := m.source.Fetch(ctx)
	if err != nil {
		// Only reachable without a tiered source; tiered fetches degrade to
		// the builtin catalog instead of failing.
		if m.metrics != nil {
			m.metrics.RecordLoadError()
		}
		return nil, errors.WrapTransient(err, "Catalog", "load", "source fetch")
	}

	if _, err := m.cache.Set(cacheKey, loaded); err != nil {
		m.logger.Warn("catalog cache write failed", "error", err)
	}

	m.logger.Debug("catalog loaded",
		"queries", len(loaded.Queries),
		"version", loaded.Metadata.Version)
	if m.metrics != nil {
		m.metrics.RecordLoad("source", time.Since(start))
	}
	return loaded, nil
}
