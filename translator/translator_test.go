package translator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

func TestKeyTableIsBidirectional(t *testing.T) {
	for internal, external := range internalToExternal {
		got, ok := InternalKey(external)
		require.True(t, ok, "external key %q has no reverse mapping", external)
		assert.Equal(t, internal, got)
	}
	assert.Len(t, externalToInternal, len(internalToExternal),
		"external names must be unique for the table to invert")
}

func TestClean(t *testing.T) {
	tests := []struct {
		name        string
		in          map[string]any
		want        map[string]any
		wantDropped int
	}{
		{
			name: "drops node types without counting them",
			in: map[string]any{
				graph.KeyNodeTypes:     []string{"CONSULTANT"},
				graph.KeyConsultantIDs: []string{"Jane Doe"},
			},
			want:        map[string]any{graph.KeyConsultantIDs: []string{"Jane Doe"}},
			wantDropped: 0,
		},
		{
			name: "drops empty values",
			in: map[string]any{
				graph.KeyClientIDs:       []string{"Acme Corp"},
				graph.KeyChannels:        []string{},
				graph.KeyAssetClasses:    nil,
				graph.KeySalesRegions:    "",
				graph.KeyMandateStatuses: map[string]any{},
			},
			want:        map[string]any{graph.KeyClientIDs: []string{"Acme Corp"}},
			wantDropped: 4,
		},
		{
			name:        "empty input stays empty",
			in:          map[string]any{},
			want:        map[string]any{},
			wantDropped: 0,
		},
		{
			name: "false flag survives cleaning",
			in: map[string]any{
				graph.KeyShowInactive: false,
			},
			want:        map[string]any{graph.KeyShowInactive: false},
			wantDropped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := Clean(tt.in)
			assert.Empty(t, cmp.Diff(tt.want, got))
			assert.Equal(t, tt.wantDropped, dropped)
		})
	}
}

func TestTranslate(t *testing.T) {
	in := map[string]any{
		graph.KeyConsultantIDs:   []string{"Jane Doe"},
		graph.KeyRatings:         []string{"Positive"},
		graph.KeyMandateStatuses: []string{"At Risk"},
		"customDimension":        []string{"keep-me"},
	}

	got, renamed := Translate(in)

	want := map[string]any{
		"consultant.name":             []string{"Jane Doe"},
		"rating.rankgroup":            []string{"Positive"},
		"relationship.mandate_status": []string{"At Risk"},
		"customDimension":             []string{"keep-me"},
	}
	assert.Empty(t, cmp.Diff(want, got))

	assert.Equal(t, map[string]string{
		graph.KeyConsultantIDs:   "consultant.name",
		graph.KeyRatings:         "rating.rankgroup",
		graph.KeyMandateStatuses: "relationship.mandate_status",
	}, renamed)

	// The input map itself is untouched.
	assert.Contains(t, in, graph.KeyConsultantIDs)
	assert.NotContains(t, in, "consultant.name")
}

func TestPrepare(t *testing.T) {
	criteria := &graph.FilterCriteria{
		ConsultantIDs: []string{"Jane Doe"},
		NodeTypes:     []string{"CONSULTANT"},
	}

	result := Prepare(criteria)

	assert.Empty(t, cmp.Diff(map[string]any{
		"consultant.name": []string{"Jane Doe"},
	}, result.Filters))
	assert.Equal(t, map[string]string{graph.KeyConsultantIDs: "consultant.name"}, result.Renamed)
	assert.Zero(t, result.DroppedEmpty)

	// Preparing must not mutate the criteria.
	assert.Equal(t, []string{"CONSULTANT"}, criteria.NodeTypes)
}

func TestPrepareNilCriteria(t *testing.T) {
	result := Prepare(nil)
	assert.Empty(t, result.Filters)
	assert.Empty(t, result.Renamed)
	assert.Zero(t, result.DroppedEmpty)
}

func TestPrepareKeepsUnmappedAndFlag(t *testing.T) {
	criteria := &graph.FilterCriteria{
		IncumbentProductIDs: []string{"Legacy Growth"},
		ShowInactive:        true,
	}

	result := Prepare(criteria)

	assert.Empty(t, cmp.Diff(map[string]any{
		"incumbent_product.name": []string{"Legacy Growth"},
		graph.KeyShowInactive:    true,
	}, result.Filters))
}
