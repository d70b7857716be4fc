package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

func TestExtractOptions_ObservedValuesSortedAndDeduplicated(t *testing.T) {
	snap := &graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "c1", Type: graph.NodeConsultant, Attributes: map[string]any{
				graph.AttrName: "Zoe Chen", graph.AttrSalesRegion: "West",
			}},
			{ID: "c2", Type: graph.NodeConsultant, Attributes: map[string]any{
				graph.AttrName: "Amir Patel", graph.AttrSalesRegion: "West",
			}},
			{ID: "k1", Type: graph.NodeCompany, Attributes: map[string]any{
				graph.AttrName: "Acme Corp", graph.AttrChannel: "Institutional", graph.AttrPCA: "Pat Kim",
			}},
			{ID: "p1", Type: graph.NodeProduct, Attributes: map[string]any{
				graph.AttrName: "Growth Fund", graph.AttrAssetClass: "Equity",
			}},
		},
	}

	opts := ExtractOptions(snap)

	assert.Equal(t, []string{"Amir Patel", "Zoe Chen"}, opts.Consultants, "sorted by name")
	assert.Equal(t, []string{"West"}, opts.SalesRegions, "duplicates collapse")
	assert.Equal(t, []string{"Acme Corp"}, opts.Clients)
	assert.Equal(t, []string{"Pat Kim"}, opts.ClientAdvisors)
	assert.Equal(t, []string{"Equity"}, opts.AssetClasses)
	assert.Equal(t, []string{"Institutional"}, opts.Channels)
}

func TestExtractOptions_StaticDimensionsStableUnderSparseData(t *testing.T) {
	opts := ExtractOptions(&graph.Snapshot{})

	assert.Equal(t, GlobalRegions, opts.Regions)
	assert.Equal(t, CanonicalRankGroups, opts.Ratings)
	assert.ElementsMatch(t, CanonicalMandateStatuses, opts.MandateStatuses)
}

func TestExtractOptions_MandateStatusesHarvestedFromOwns(t *testing.T) {
	snap := &graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "k1", Type: graph.NodeCompany},
			{ID: "p1", Type: graph.NodeProduct},
		},
		Relationships: []graph.Relationship{
			{ID: "o1", Type: graph.RelOwns, SourceID: "k1", TargetID: "p1", Attributes: map[string]any{
				graph.AttrMandateStatus: "Terminated",
			}},
			{ID: "cv1", Type: graph.RelCovers, SourceID: "k1", TargetID: "p1", Attributes: map[string]any{
				graph.AttrInfluenceLevel: "High",
				// Mandate status on a non-Owns relationship is not harvested
				graph.AttrMandateStatus: "Bogus",
			}},
		},
	}

	opts := ExtractOptions(snap)

	assert.Contains(t, opts.MandateStatuses, "Terminated", "observed Owns statuses join the canonical list")
	assert.NotContains(t, opts.MandateStatuses, "Bogus")
	assert.Equal(t, []string{"High"}, opts.InfluenceLevels)

	// Canonical entries survive alongside harvested ones
	for _, canonical := range CanonicalMandateStatuses {
		assert.Contains(t, opts.MandateStatuses, canonical)
	}
	require.IsIncreasing(t, opts.MandateStatuses)
}
