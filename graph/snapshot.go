package graph

import (
	"fmt"
)

// Snapshot is an immutable, region-scoped slice of the graph dataset.
// Invariant: every relationship's endpoints are present in Nodes.
type Snapshot struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// NodeIDSet returns the set of node IDs present in the snapshot.
func (s *Snapshot) NodeIDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}

// NodesByID returns an ID-indexed view of the snapshot's nodes.
func (s *Snapshot) NodesByID() map[string]*Node {
	byID := make(map[string]*Node, len(s.Nodes))
	for i := range s.Nodes {
		byID[s.Nodes[i].ID] = &s.Nodes[i]
	}
	return byID
}

// Validate checks the referential invariant: every relationship endpoint must
// resolve to a node in the snapshot.
func (s *Snapshot) Validate() error {
	ids := s.NodeIDSet()
	for _, rel := range s.Relationships {
		if _, ok := ids[rel.SourceID]; !ok {
			return fmt.Errorf("relationship %s references missing source node %s", rel.ID, rel.SourceID)
		}
		if _, ok := ids[rel.TargetID]; !ok {
			return fmt.Errorf("relationship %s references missing target node %s", rel.ID, rel.TargetID)
		}
	}
	return nil
}

// RetainConsistent returns the subset of relationships whose endpoints both
// appear in nodeIDs. Used by the store and engine to re-establish the
// referential invariant after narrowing the node set.
func RetainConsistent(relationships []Relationship, nodeIDs map[string]struct{}) []Relationship {
	kept := make([]Relationship, 0, len(relationships))
	for _, rel := range relationships {
		if _, ok := nodeIDs[rel.SourceID]; !ok {
			continue
		}
		if _, ok := nodeIDs[rel.TargetID]; !ok {
			continue
		}
		kept = append(kept, rel)
	}
	return kept
}
