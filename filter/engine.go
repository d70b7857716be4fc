// Package filter applies a FilterCriteria to a region snapshot through a
// fixed, ordered pipeline of narrowing stages. Stage order is load-bearing:
// relationship filters run against the node-narrowed edge set, and orphan
// pruning runs last.
package filter

import (
	"log/slog"
	"time"

	"github.com/prabhakarm7/sn-graph-sub002/graph"
	"github.com/prabhakarm7/sn-graph-sub002/metric"
)

// Engine reduces snapshots under referential-consistency invariants. It is
// stateless; one engine serves any number of Apply calls.
type Engine struct {
	metrics *Metrics
	logger  *slog.Logger
}

// Deps holds runtime dependencies for the filter engine.
type Deps struct {
	Registry *metric.Registry // optional
	Logger   *slog.Logger     // optional
}

// NewEngine creates a filter engine.
func NewEngine(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{logger: logger}
	if deps.Registry != nil {
		e.metrics = NewMetrics(deps.Registry)
	}
	return e
}

// Apply runs the eight filter stages in order and returns a reduced snapshot.
// The input snapshot is never mutated. The result satisfies the referential
// invariant by construction: stage six recomputes the edge set from the
// surviving nodes, and stages seven and eight only remove elements.
func (e *Engine) Apply(snap *graph.Snapshot, criteria *graph.FilterCriteria) *graph.Snapshot {
	start := time.Now()
	if criteria == nil {
		criteria = &graph.FilterCriteria{}
	}

	// Stages 1-5: node narrowing
	nodes := stageNodeTypes(snap.Nodes, criteria)
	nodes = stageNodeAttributes(nodes, criteria)
	nodes = stageIdentity(nodes, criteria)
	nodes = stageAdvisors(nodes, criteria)
	nodes = stageRatings(nodes, criteria)

	reduced := &graph.Snapshot{Nodes: nodes}

	// Stage 6: recompute surviving relationships from the narrowed node set
	reduced.Relationships = graph.RetainConsistent(snap.Relationships, reduced.NodeIDSet())

	// Stage 7: relationship-attribute narrowing
	reduced.Relationships = stageRelationshipAttributes(reduced.Relationships, criteria)

	// Stage 8: orphan pruning, after all relationship filters
	if !criteria.ShowInactive {
		reduced.Nodes = pruneOrphans(reduced.Nodes, reduced.Relationships)
	}

	e.logger.Debug("filters applied",
		"nodes_in", len(snap.Nodes),
		"nodes_out", len(reduced.Nodes),
		"relationships_in", len(snap.Relationships),
		"relationships_out", len(reduced.Relationships))
	if e.metrics != nil {
		e.metrics.RecordApply(time.Since(start), len(snap.Nodes), len(reduced.Nodes))
	}

	return reduced
}

// pruneOrphans removes nodes with zero surviving relationships.
func pruneOrphans(nodes []graph.Node, relationships []graph.Relationship) []graph.Node {
	connected := make(map[string]struct{}, len(relationships)*2)
	for _, rel := range relationships {
		connected[rel.SourceID] = struct{}{}
		connected[rel.TargetID] = struct{}{}
	}

	kept := make([]graph.Node, 0, len(nodes))
	for _, node := range nodes {
		if _, ok := connected[node.ID]; ok {
			kept = append(kept, node)
		}
	}
	return kept
}
