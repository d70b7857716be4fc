// Package graph defines the coverage-network data model: nodes,
// relationships, region-scoped snapshots, and the filter criteria vocabulary
// shared by the snapshot store, filter engine, and query pipeline.
package graph

import (
	"fmt"
	"strings"
)

// NodeType identifies the kind of entity a node represents.
type NodeType string

const (
	NodeConsultant       NodeType = "CONSULTANT"
	NodeFieldConsultant  NodeType = "FIELD_CONSULTANT"
	NodeCompany          NodeType = "COMPANY"
	NodeProduct          NodeType = "PRODUCT"
	NodeIncumbentProduct NodeType = "INCUMBENT_PRODUCT"
)

// AllNodeTypes lists every node type in display order.
var AllNodeTypes = []NodeType{
	NodeConsultant,
	NodeFieldConsultant,
	NodeCompany,
	NodeProduct,
	NodeIncumbentProduct,
}

// ParseNodeType converts an external type string to a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	nt := NodeType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllNodeTypes {
		if nt == known {
			return nt, nil
		}
	}
	return "", fmt.Errorf("unknown node type %q", s)
}

// RelationshipType identifies the kind of edge between two nodes.
type RelationshipType string

const (
	RelEmploys      RelationshipType = "EMPLOYS"
	RelCovers       RelationshipType = "COVERS"
	RelRates        RelationshipType = "RATES"
	RelOwns         RelationshipType = "OWNS"
	RelBiRecommends RelationshipType = "BI_RECOMMENDS"
)

// AllRelationshipTypes lists every relationship type.
var AllRelationshipTypes = []RelationshipType{
	RelEmploys,
	RelCovers,
	RelRates,
	RelOwns,
	RelBiRecommends,
}

// Attribute keys shared across the data layer.
const (
	AttrRegion            = "region"
	AttrName              = "name"
	AttrSalesRegion       = "sales_region"
	AttrChannel           = "channel"
	AttrAssetClass        = "asset_class"
	AttrPCA               = "pca"
	AttrConsultantAdvisor = "consultant_advisor"
	AttrRatings           = "ratings"
	AttrRankGroup         = "rankgroup"
	AttrMandateStatus     = "mandate_status"
	AttrInfluenceLevel    = "level_of_influence"
)

// Node is an immutable entity in the coverage network. Filtering only ever
// selects nodes; it never mutates them.
type Node struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// StringAttr returns a string attribute value, or "" when absent or not a
// string.
func (n *Node) StringAttr(key string) string {
	if n.Attributes == nil {
		return ""
	}
	if v, ok := n.Attributes[key].(string); ok {
		return v
	}
	return ""
}

// HasAttr reports whether the attribute is present with a non-nil value.
func (n *Node) HasAttr(key string) bool {
	if n.Attributes == nil {
		return false
	}
	v, ok := n.Attributes[key]
	return ok && v != nil
}

// Ratings returns the node's attached ratings as attribute bags. Both
// []map[string]any and the []any form produced by JSON decoding are accepted.
func (n *Node) Ratings() []map[string]any {
	if n.Attributes == nil {
		return nil
	}

	switch raw := n.Attributes[AttrRatings].(type) {
	case []map[string]any:
		return raw
	case []any:
		ratings := make([]map[string]any, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]any); ok {
				ratings = append(ratings, m)
			}
		}
		return ratings
	default:
		return nil
	}
}

// Relationship is an immutable edge between two nodes. Its endpoints must
// exist in the same snapshot.
type Relationship struct {
	ID         string           `json:"id"`
	Type       RelationshipType `json:"type"`
	SourceID   string           `json:"source_id"`
	TargetID   string           `json:"target_id"`
	Attributes map[string]any   `json:"attributes,omitempty"`
}

// StringAttr returns a string attribute value, or "" when absent or not a
// string.
func (r *Relationship) StringAttr(key string) string {
	if r.Attributes == nil {
		return ""
	}
	if v, ok := r.Attributes[key].(string); ok {
		return v
	}
	return ""
}

// HasAttr reports whether the attribute is present with a non-nil value.
func (r *Relationship) HasAttr(key string) bool {
	if r.Attributes == nil {
		return false
	}
	v, ok := r.Attributes[key]
	return ok && v != nil
}
