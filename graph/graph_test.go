package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeType(t *testing.T) {
	nt, err := ParseNodeType("consultant")
	require.NoError(t, err)
	assert.Equal(t, NodeConsultant, nt)

	nt, err = ParseNodeType(" FIELD_CONSULTANT ")
	require.NoError(t, err)
	assert.Equal(t, NodeFieldConsultant, nt)

	_, err = ParseNodeType("widget")
	assert.Error(t, err)
}

func TestNode_Ratings(t *testing.T) {
	// Typed form
	n := Node{
		ID:   "p1",
		Type: NodeProduct,
		Attributes: map[string]any{
			AttrRatings: []map[string]any{{AttrRankGroup: "Positive"}},
		},
	}
	ratings := n.Ratings()
	require.Len(t, ratings, 1)
	assert.Equal(t, "Positive", ratings[0][AttrRankGroup])

	// JSON-decoded form
	n.Attributes[AttrRatings] = []any{
		map[string]any{AttrRankGroup: "Negative"},
		"garbage entry ignored",
	}
	ratings = n.Ratings()
	require.Len(t, ratings, 1)
	assert.Equal(t, "Negative", ratings[0][AttrRankGroup])

	// Absent
	assert.Nil(t, (&Node{ID: "x"}).Ratings())
}

func TestSnapshot_Validate(t *testing.T) {
	snap := &Snapshot{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Relationships: []Relationship{
			{ID: "r1", SourceID: "a", TargetID: "b"},
		},
	}
	require.NoError(t, snap.Validate())

	snap.Relationships = append(snap.Relationships, Relationship{ID: "r2", SourceID: "a", TargetID: "ghost"})
	assert.Error(t, snap.Validate())
}

func TestRetainConsistent(t *testing.T) {
	rels := []Relationship{
		{ID: "r1", SourceID: "a", TargetID: "b"},
		{ID: "r2", SourceID: "a", TargetID: "c"},
		{ID: "r3", SourceID: "c", TargetID: "b"},
	}
	surviving := map[string]struct{}{"a": {}, "b": {}}

	kept := RetainConsistent(rels, surviving)
	require.Len(t, kept, 1)
	assert.Equal(t, "r1", kept[0].ID)
}

func TestFilterCriteria_MapRoundTrip(t *testing.T) {
	fc := &FilterCriteria{
		ConsultantIDs:   []string{"Jane Doe"},
		MandateStatuses: []string{"Active", "At Risk"},
		ShowInactive:    true,
	}

	m := fc.ToMap()
	assert.Len(t, m, 3)
	assert.NotContains(t, m, KeyClientIDs, "empty dimensions must be absent")

	back := CriteriaFromMap(m)
	if diff := cmp.Diff(fc, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCriteriaFromMap_Normalization(t *testing.T) {
	fc := CriteriaFromMap(map[string]any{
		KeyConsultantIDs:   []any{"Jane Doe", ""},
		KeyClientIDs:       []string{},
		KeyProductIDs:      nil,
		KeyChannels:        "Institutional",
		KeyRatings:         []any{1, 2},
		"unknownDimension": []string{"x"},
	})

	assert.Equal(t, []string{"Jane Doe"}, fc.ConsultantIDs)
	assert.Nil(t, fc.ClientIDs, "empty collection normalizes to absence")
	assert.Nil(t, fc.ProductIDs)
	assert.Equal(t, []string{"Institutional"}, fc.Channels, "scalar accepted as single selection")
	assert.Nil(t, fc.Ratings, "non-string values dropped")
}

func TestFilterCriteria_CloneIsIndependent(t *testing.T) {
	fc := &FilterCriteria{ClientIDs: []string{"Acme"}}
	clone := fc.Clone()
	clone.ClientIDs[0] = "Globex"

	assert.Equal(t, "Acme", fc.ClientIDs[0])
}

func TestFilterCriteria_IsZero(t *testing.T) {
	assert.True(t, (&FilterCriteria{}).IsZero())
	assert.True(t, (&FilterCriteria{ShowInactive: true}).IsZero(), "showInactive alone does not constrain")
	assert.False(t, (&FilterCriteria{Regions: []string{"NAI"}}).IsZero())
}
