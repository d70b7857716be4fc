package filter

import (
	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

// attributePolicy decides how a filter treats an entity that lacks the
// filtered attribute. Geography and channel filters are permissive because
// those attributes are genuinely optional on nodes; mandate status and
// ratings are required by the business, so their filters exclude entities
// without a recorded value. Keeping the policy explicit per stage prevents a
// refactor from silently merging the two behaviors.
type attributePolicy int

const (
	// missingPasses lets an entity without the attribute survive the filter
	missingPasses attributePolicy = iota
	// missingFails excludes an entity without the attribute once the filter
	// is active
	missingFails
)

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// stageNodeTypes keeps nodes whose type is in the selection (stage 1).
func stageNodeTypes(nodes []graph.Node, criteria *graph.FilterCriteria) []graph.Node {
	wanted := toSet(criteria.NodeTypes)
	if wanted == nil {
		return nodes
	}

	kept := make([]graph.Node, 0, len(nodes))
	for _, node := range nodes {
		if _, ok := wanted[string(node.Type)]; ok {
			kept = append(kept, node)
		}
	}
	return kept
}

// attributeFilter narrows nodes on an attribute-equality selection under the
// given missing-attribute policy. Scope limits the filter to one node type;
// nodes of other types always pass.
type attributeFilter struct {
	attr   string
	values []string
	policy attributePolicy
	scope  graph.NodeType // empty = all types
}

func (f attributeFilter) apply(nodes []graph.Node) []graph.Node {
	wanted := toSet(f.values)
	if wanted == nil {
		return nodes
	}

	kept := make([]graph.Node, 0, len(nodes))
	for _, node := range nodes {
		if f.scope != "" && node.Type != f.scope {
			kept = append(kept, node)
			continue
		}
		value := node.StringAttr(f.attr)
		if value == "" {
			if f.policy == missingPasses {
				kept = append(kept, node)
			}
			continue
		}
		if _, ok := wanted[value]; ok {
			kept = append(kept, node)
		}
	}
	return kept
}

// stageNodeAttributes applies the permissive attribute-equality filters
// (stage 2): sales region, channel, asset class.
func stageNodeAttributes(nodes []graph.Node, criteria *graph.FilterCriteria) []graph.Node {
	for _, f := range []attributeFilter{
		{attr: graph.AttrSalesRegion, values: criteria.SalesRegions, policy: missingPasses},
		{attr: graph.AttrChannel, values: criteria.Channels, policy: missingPasses},
		{attr: graph.AttrAssetClass, values: criteria.AssetClasses, policy: missingPasses},
	} {
		nodes = f.apply(nodes)
	}
	return nodes
}

// stageIdentity applies the per-type identity filters (stage 3), matched by
// display name. Each filter is scoped to its node type.
func stageIdentity(nodes []graph.Node, criteria *graph.FilterCriteria) []graph.Node {
	for _, f := range []attributeFilter{
		{attr: graph.AttrName, values: criteria.ConsultantIDs, policy: missingFails, scope: graph.NodeConsultant},
		{attr: graph.AttrName, values: criteria.FieldConsultantIDs, policy: missingFails, scope: graph.NodeFieldConsultant},
		{attr: graph.AttrName, values: criteria.ClientIDs, policy: missingFails, scope: graph.NodeCompany},
		{attr: graph.AttrName, values: criteria.ProductIDs, policy: missingFails, scope: graph.NodeProduct},
		{attr: graph.AttrName, values: criteria.IncumbentProductIDs, policy: missingFails, scope: graph.NodeIncumbentProduct},
	} {
		nodes = f.apply(nodes)
	}
	return nodes
}

// stageAdvisors applies the advisor filters (stage 4): client advisors match
// a company's pca, consultant advisors match a consultant's advisor. Both
// keep the permissive missing-attribute policy.
func stageAdvisors(nodes []graph.Node, criteria *graph.FilterCriteria) []graph.Node {
	for _, f := range []attributeFilter{
		{attr: graph.AttrPCA, values: criteria.ClientAdvisorIDs, policy: missingPasses, scope: graph.NodeCompany},
		{attr: graph.AttrConsultantAdvisor, values: criteria.ConsultantAdvisorIDs, policy: missingPasses, scope: graph.NodeConsultant},
	} {
		nodes = f.apply(nodes)
	}
	return nodes
}

// stageRatings applies the rating filter (stage 5) to Product nodes only. A
// product survives if ANY attached rating carries a requested rank group. An
// unrated product is excluded once the filter is active; this is deliberately
// stricter than the stage 2 policy.
func stageRatings(nodes []graph.Node, criteria *graph.FilterCriteria) []graph.Node {
	wanted := toSet(criteria.Ratings)
	if wanted == nil {
		return nodes
	}

	kept := make([]graph.Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Type != graph.NodeProduct {
			kept = append(kept, node)
			continue
		}

		matched := false
		for _, rating := range node.Ratings() {
			if group, ok := rating[graph.AttrRankGroup].(string); ok {
				if _, want := wanted[group]; want {
					matched = true
					break
				}
			}
		}
		if matched {
			kept = append(kept, node)
		}
	}
	return kept
}

// relationshipFilter narrows one relationship type on an attribute selection.
// Relationships of other types always pass.
type relationshipFilter struct {
	relType graph.RelationshipType
	attr    string
	values  []string
	policy  attributePolicy
}

func (f relationshipFilter) apply(relationships []graph.Relationship) []graph.Relationship {
	wanted := toSet(f.values)
	if wanted == nil {
		return relationships
	}

	kept := make([]graph.Relationship, 0, len(relationships))
	for _, rel := range relationships {
		if rel.Type != f.relType {
			kept = append(kept, rel)
			continue
		}
		value := rel.StringAttr(f.attr)
		if value == "" {
			if f.policy == missingPasses {
				kept = append(kept, rel)
			}
			continue
		}
		if _, ok := wanted[value]; ok {
			kept = append(kept, rel)
		}
	}
	return kept
}

// stageRelationshipAttributes applies the relationship filters (stage 7):
// influence level narrows Covers only, mandate status narrows Owns only. An
// Owns relationship without a recorded status is excluded once the mandate
// filter is active; the attribute is required on ownership edges, asymmetric
// with the node-level policy.
func stageRelationshipAttributes(relationships []graph.Relationship, criteria *graph.FilterCriteria) []graph.Relationship {
	for _, f := range []relationshipFilter{
		{relType: graph.RelCovers, attr: graph.AttrInfluenceLevel, values: criteria.InfluenceLevels, policy: missingPasses},
		{relType: graph.RelOwns, attr: graph.AttrMandateStatus, values: criteria.MandateStatuses, policy: missingFails},
	} {
		relationships = f.apply(relationships)
	}
	return relationships
}
