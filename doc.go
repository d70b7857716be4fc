// Package graphexplorer is the data layer behind a coverage-network
// relationship explorer: consultants, field consultants, companies, and
// products connected by employment, coverage, rating, ownership, and
// recommendation edges.
//
// The module is organized as a pipeline of small packages:
//
//   - graph: the data model (nodes, relationships, snapshots, filter
//     criteria) and the referential invariant every served snapshot holds.
//   - snapshot: region-scoped snapshot retrieval with per-region caching,
//     plus filter-option extraction from whatever snapshot is in view.
//   - filter: the eight-stage reduction pipeline applied to a snapshot.
//   - catalog: smart-query definitions with TTL-cached remote loading,
//     builtin fallback, admission validation, mode detection, and filter
//     prerequisite validation.
//   - translator: internal-to-backend filter key translation.
//   - executor: end-to-end query execution over HTTP or NATS.
//   - api: the HTTP surface tying the above together.
//
// Supporting packages (errors, metric, pkg/cache, pkg/retry, telemetry,
// config) carry the ambient concerns: classified errors, Prometheus
// metrics, generic caching, backoff retry, usage events, and YAML
// configuration.
package graphexplorer
