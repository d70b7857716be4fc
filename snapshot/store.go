// Package snapshot owns the region-partitioned graph dataset. The Store
// answers "nodes plus relationships for a region set" with per-region
// caching, and the option extractor derives selectable filter values from a
// snapshot for the UI controls.
package snapshot

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
	"github.com/prabhakarm7/sn-graph-sub002/graph"
	"github.com/prabhakarm7/sn-graph-sub002/metric"
	"github.com/prabhakarm7/sn-graph-sub002/pkg/cache"
)

// Source supplies the full, unpartitioned dataset. An in-memory source never
// errors; a networked source must surface errors.ErrSourceUnavailable so
// callers can distinguish failure from an empty region.
type Source interface {
	Load(ctx context.Context) (*graph.Snapshot, error)
}

// Store answers region-scoped snapshot requests. Single-region requests are
// cached by region key for the process lifetime; multi-region requests are
// union-filtered on every call and never cached.
type Store struct {
	source  Source
	cache   cache.Cache[*graph.Snapshot]
	metrics *Metrics
	logger  *slog.Logger
}

// Deps holds runtime dependencies for the snapshot store.
type Deps struct {
	Source   Source
	Cache    cache.Cache[*graph.Snapshot] // optional; defaults to a Simple cache
	Registry *metric.Registry             // optional
	Logger   *slog.Logger                 // optional
}

// NewStore creates a snapshot store.
func NewStore(deps Deps) (*Store, error) {
	if deps.Source == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "SnapshotStore", "NewStore",
			"source dependency required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	regionCache := deps.Cache
	if regionCache == nil {
		var err error
		regionCache, err = cache.NewSimple[*graph.Snapshot]()
		if err != nil {
			return nil, errors.WrapTransient(err, "SnapshotStore", "NewStore", "cache construction")
		}
	}

	s := &Store{
		source: deps.Source,
		cache:  regionCache,
		logger: logger,
	}
	if deps.Registry != nil {
		s.metrics = NewMetrics(deps.Registry)
	}
	return s, nil
}

// GetSnapshot returns the snapshot scoped to the given region keys. Region
// matching is strict and case-sensitive; nodes without a region attribute are
// excluded. Relationships are retained iff both endpoints survive.
func (s *Store) GetSnapshot(ctx context.Context, regionKeys []string) (*graph.Snapshot, error) {
	start := time.Now()

	keys := normalizeRegionKeys(regionKeys)
	if len(keys) == 0 {
		return nil, errors.WrapInvalid(errors.ErrRegionRequired, "SnapshotStore", "GetSnapshot",
			"empty region selection")
	}

	// Single-region requests hit the per-region cache. Concurrent misses for
	// the same key may race to populate it; the results are identical so the
	// extra load is accepted.
	if len(keys) == 1 {
		if cached, ok := s.cache.Get(keys[0]); ok {
			if s.metrics != nil {
				s.metrics.RecordRequest("hit", time.Since(start), len(cached.Nodes))
			}
			return cached, nil
		}
	}

	dataset, err := s.source.Load(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("load")
		}
		return nil, errors.WrapTransient(err, "SnapshotStore", "GetSnapshot", "dataset load")
	}

	scoped := filterByRegions(dataset, keys)

	result := "multi"
	if len(keys) == 1 {
		result = "miss"
		if _, err := s.cache.Set(keys[0], scoped); err != nil {
			// Cache write failure degrades to uncached operation
			s.logger.Warn("snapshot cache write failed", "region", keys[0], "error", err)
		}
	}

	s.logger.Debug("snapshot computed",
		"regions", keys,
		"nodes", len(scoped.Nodes),
		"relationships", len(scoped.Relationships),
		"cached", result == "miss")
	if s.metrics != nil {
		s.metrics.RecordRequest(result, time.Since(start), len(scoped.Nodes))
	}

	return scoped, nil
}

// InvalidateRegion drops one region's cached snapshot.
func (s *Store) InvalidateRegion(regionKey string) {
	if _, err := s.cache.Delete(regionKey); err != nil {
		s.logger.Warn("region invalidation failed", "region", regionKey, "error", err)
	}
}

// Invalidate drops every cached snapshot, forcing reloads on next access.
func (s *Store) Invalidate() {
	if err := s.cache.Clear(); err != nil {
		s.logger.Warn("snapshot cache clear failed", "error", err)
	}
}

// CacheStats exposes the region cache statistics.
func (s *Store) CacheStats() *cache.Statistics {
	return s.cache.Stats()
}

// normalizeRegionKeys trims blanks, de-duplicates, and sorts for a stable
// union order. Case is preserved: region matching is case-sensitive.
func normalizeRegionKeys(regionKeys []string) []string {
	seen := make(map[string]struct{}, len(regionKeys))
	keys := make([]string, 0, len(regionKeys))
	for _, key := range regionKeys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// filterByRegions scopes the dataset to nodes whose region attribute exactly
// matches one of the keys, then retains only fully resident relationships.
func filterByRegions(dataset *graph.Snapshot, keys []string) *graph.Snapshot {
	wanted := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		wanted[key] = struct{}{}
	}

	nodes := make([]graph.Node, 0, len(dataset.Nodes))
	for _, node := range dataset.Nodes {
		region := node.StringAttr(graph.AttrRegion)
		if region == "" {
			// A node without a region attribute is excluded outright
			continue
		}
		if _, ok := wanted[region]; ok {
			nodes = append(nodes, node)
		}
	}

	scoped := &graph.Snapshot{Nodes: nodes}
	scoped.Relationships = graph.RetainConsistent(dataset.Relationships, scoped.NodeIDSet())
	return scoped
}
