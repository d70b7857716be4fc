package snapshot

import (
	"github.com/tidwall/btree"

	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

// GlobalRegions is the static region list. UI region pickers stay stable even
// when the loaded dataset covers a subset of regions.
var GlobalRegions = []string{"APAC", "EMEA", "NAI"}

// CanonicalMandateStatuses enumerates the business states an Owns
// relationship can carry.
var CanonicalMandateStatuses = []string{"Active", "At Risk", "Conversion in Progress"}

// CanonicalRankGroups enumerates the rating classes a product rating can
// carry.
var CanonicalRankGroups = []string{"Introduced", "Negative", "Neutral", "Positive"}

// FilterOptions holds the selectable values per filter dimension: sorted,
// de-duplicated observed values, plus statically enumerated dimensions so
// controls stay stable under sparse data.
type FilterOptions struct {
	Regions            []string `json:"regions"`
	NodeTypes          []string `json:"nodeTypes"`
	SalesRegions       []string `json:"sales_regions"`
	Channels           []string `json:"channels"`
	AssetClasses       []string `json:"assetClasses"`
	Consultants        []string `json:"consultantIds"`
	FieldConsultants   []string `json:"fieldConsultantIds"`
	Clients            []string `json:"clientIds"`
	Products           []string `json:"productIds"`
	IncumbentProducts  []string `json:"incumbentProductIds"`
	ClientAdvisors     []string `json:"clientAdvisorIds"`
	ConsultantAdvisors []string `json:"consultantAdvisorIds"`
	Ratings            []string `json:"ratings"`
	InfluenceLevels    []string `json:"influenceLevels"`
	MandateStatuses    []string `json:"mandateStatuses"`
}

// optionSet accumulates observed values with sorted, de-duplicated output.
type optionSet struct {
	set btree.Set[string]
}

func (os *optionSet) add(value string) {
	if value != "" {
		os.set.Insert(value)
	}
}

func (os *optionSet) addAll(values []string) {
	for _, v := range values {
		os.add(v)
	}
}

func (os *optionSet) sorted() []string {
	out := make([]string, 0, os.set.Len())
	os.set.Scan(func(item string) bool {
		out = append(out, item)
		return true
	})
	return out
}

// ExtractOptions derives the selectable filter values from a snapshot.
// Mandate statuses are harvested from Owns relationship attributes as well as
// merged with the canonical list, since sparse data may carry none.
func ExtractOptions(snap *graph.Snapshot) *FilterOptions {
	var (
		nodeTypes          optionSet
		salesRegions       optionSet
		channels           optionSet
		assetClasses       optionSet
		consultants        optionSet
		fieldConsultants   optionSet
		clients            optionSet
		products           optionSet
		incumbentProducts  optionSet
		clientAdvisors     optionSet
		consultantAdvisors optionSet
		influenceLevels    optionSet
		mandateStatuses    optionSet
	)

	mandateStatuses.addAll(CanonicalMandateStatuses)

	for i := range snap.Nodes {
		node := &snap.Nodes[i]
		nodeTypes.add(string(node.Type))
		salesRegions.add(node.StringAttr(graph.AttrSalesRegion))
		channels.add(node.StringAttr(graph.AttrChannel))

		name := node.StringAttr(graph.AttrName)
		switch node.Type {
		case graph.NodeConsultant:
			consultants.add(name)
			consultantAdvisors.add(node.StringAttr(graph.AttrConsultantAdvisor))
		case graph.NodeFieldConsultant:
			fieldConsultants.add(name)
		case graph.NodeCompany:
			clients.add(name)
			clientAdvisors.add(node.StringAttr(graph.AttrPCA))
		case graph.NodeProduct:
			products.add(name)
			assetClasses.add(node.StringAttr(graph.AttrAssetClass))
		case graph.NodeIncumbentProduct:
			incumbentProducts.add(name)
			assetClasses.add(node.StringAttr(graph.AttrAssetClass))
		}
	}

	for i := range snap.Relationships {
		rel := &snap.Relationships[i]
		switch rel.Type {
		case graph.RelCovers:
			influenceLevels.add(rel.StringAttr(graph.AttrInfluenceLevel))
		case graph.RelOwns:
			mandateStatuses.add(rel.StringAttr(graph.AttrMandateStatus))
		}
	}

	return &FilterOptions{
		Regions:            append([]string(nil), GlobalRegions...),
		NodeTypes:          nodeTypes.sorted(),
		SalesRegions:       salesRegions.sorted(),
		Channels:           channels.sorted(),
		AssetClasses:       assetClasses.sorted(),
		Consultants:        consultants.sorted(),
		FieldConsultants:   fieldConsultants.sorted(),
		Clients:            clients.sorted(),
		Products:           products.sorted(),
		IncumbentProducts:  incumbentProducts.sorted(),
		ClientAdvisors:     clientAdvisors.sorted(),
		ConsultantAdvisors: consultantAdvisors.sorted(),
		Ratings:            append([]string(nil), CanonicalRankGroups...),
		InfluenceLevels:    influenceLevels.sorted(),
		MandateStatuses:    mandateStatuses.sorted(),
	}
}
