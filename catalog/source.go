package catalog

import (
	"context"
	"log/slog"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

// Source supplies a catalog snapshot.
type Source interface {
	Fetch(ctx context.Context) (*Catalog, error)
}

// Admin performs administrative catalog mutations against the authoritative
// store. Implementations must only report success when the remote accepted
// the change, since the manager invalidates its cache on success.
type Admin interface {
	Upsert(ctx context.Context, q *SmartQuery) error
	Delete(ctx context.Context, id string) error
}

// TieredSource prefers a primary source and serves the builtin catalog when
// the primary fails. The fallback is static data owned by this package, not
// a stand-in for production infrastructure.
type TieredSource struct {
	primary  Source
	fallback *Catalog
	logger   *slog.Logger
}

// NewTieredSource creates a source that falls back to the builtin catalog.
// A nil primary serves the builtin catalog directly.
func NewTieredSource(primary Source, logger *slog.Logger) *TieredSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TieredSource{
		primary:  primary,
		fallback: BuiltinCatalog(),
		logger:   logger,
	}
}

// Fetch loads from the primary, degrading to the builtin catalog on failure.
// Primary failure is non-fatal; it is logged and the fallback served.
func (ts *TieredSource) Fetch(ctx context.Context) (*Catalog, error) {
	if ts.primary == nil {
		return ts.fallback.Clone(), nil
	}

	loaded, err := ts.primary.Fetch(ctx)
	if err != nil {
		ts.logger.Warn("primary catalog source failed, serving builtin catalog",
			"error", err,
			"fallback_queries", len(ts.fallback.Queries))
		return ts.fallback.Clone(), nil
	}
	return loaded, nil
}

// StaticSource serves a fixed catalog; used in tests and offline tooling.
type StaticSource struct {
	catalog *Catalog
	err     error
}

// NewStaticSource wraps a catalog as a Source.
func NewStaticSource(c *Catalog) *StaticSource {
	if c == nil {
		c = &Catalog{}
	}
	return &StaticSource{catalog: c}
}

// NewFailingSource returns a source that always fails; used to exercise
// fallback paths.
func NewFailingSource(err error) *StaticSource {
	if err == nil {
		err = errors.ErrSourceUnavailable
	}
	return &StaticSource{err: err}
}

// Fetch returns the held catalog or the configured error.
func (ss *StaticSource) Fetch(_ context.Context) (*Catalog, error) {
	if ss.err != nil {
		return nil, ss.err
	}
	return ss.catalog.Clone(), nil
}
