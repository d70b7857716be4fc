package snapshot

import (
	"context"

	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

// MemorySource serves a dataset held in memory. Load never fails; an empty
// dataset is a valid result, not an error.
type MemorySource struct {
	dataset *graph.Snapshot
}

// NewMemorySource wraps an in-memory dataset as a Source.
func NewMemorySource(dataset *graph.Snapshot) *MemorySource {
	if dataset == nil {
		dataset = &graph.Snapshot{}
	}
	return &MemorySource{dataset: dataset}
}

// Load returns the held dataset.
func (ms *MemorySource) Load(_ context.Context) (*graph.Snapshot, error) {
	return ms.dataset, nil
}
