// Package translator renames internal filter keys into the backend query
// service's external vocabulary. Cleaning and translation always produce a
// new outbound payload; the held FilterCriteria is never mutated.
package translator

import (
	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

// internalToExternal is the fixed rename table. It is bidirectional:
// ExternalKey and InternalKey resolve either direction, and unmapped keys
// pass through unchanged.
var internalToExternal = map[string]string{
	graph.KeyRegions:              "region",
	graph.KeyClientIDs:            "company.name",
	graph.KeyConsultantIDs:        "consultant.name",
	graph.KeyFieldConsultantIDs:   "field_consultant.name",
	graph.KeyProductIDs:           "product.name",
	graph.KeyIncumbentProductIDs:  "incumbent_product.name",
	graph.KeyClientAdvisorIDs:     "company.pca",
	graph.KeyConsultantAdvisorIDs: "consultant.consultant_advisor",
	graph.KeySalesRegions:         "company.sales_region",
	graph.KeyChannels:             "company.channel",
	graph.KeyAssetClasses:         "product.asset_class",
	graph.KeyMandateStatuses:      "relationship.mandate_status",
	graph.KeyInfluenceLevels:      "relationship.level_of_influence",
	graph.KeyRatings:              "rating.rankgroup",
}

var externalToInternal = func() map[string]string {
	m := make(map[string]string, len(internalToExternal))
	for internal, external := range internalToExternal {
		m[external] = internal
	}
	return m
}()

// ExternalKey resolves an internal key's external name.
func ExternalKey(internal string) (string, bool) {
	external, ok := internalToExternal[internal]
	return external, ok
}

// InternalKey resolves an external key back to its internal name.
func InternalKey(external string) (string, bool) {
	internal, ok := externalToInternal[external]
	return internal, ok
}

// Clean returns a copy of the filters with nodeTypes and every empty value
// removed, plus the number of entries dropped for being empty. nodeTypes is
// a display concern the backend never sees and does not count as dropped.
func Clean(filters map[string]any) (map[string]any, int) {
	cleaned := make(map[string]any, len(filters))
	dropped := 0
	for key, value := range filters {
		if key == graph.KeyNodeTypes {
			continue
		}
		if isEmptyValue(value) {
			dropped++
			continue
		}
		cleaned[key] = value
	}
	return cleaned, dropped
}

// Translate renames keys via the fixed table, returning the outbound payload
// and the renames that were applied. Unmapped keys pass through unchanged.
func Translate(filters map[string]any) (map[string]any, map[string]string) {
	translated := make(map[string]any, len(filters))
	renamed := make(map[string]string, len(filters))
	for key, value := range filters {
		external, ok := internalToExternal[key]
		if !ok {
			translated[key] = value
			continue
		}
		translated[external] = value
		renamed[key] = external
	}
	return translated, renamed
}

// Result carries the outbound payload plus the provenance the executor
// attaches to query results.
type Result struct {
	Filters      map[string]any
	Renamed      map[string]string
	DroppedEmpty int
}

// Prepare cleans and translates criteria into an outbound payload.
func Prepare(criteria *graph.FilterCriteria) Result {
	if criteria == nil {
		criteria = &graph.FilterCriteria{}
	}

	cleaned, dropped := Clean(criteria.ToMap())
	translated, renamed := Translate(cleaned)
	return Result{
		Filters:      translated,
		Renamed:      renamed,
		DroppedEmpty: dropped,
	}
}

// isEmptyValue reports whether an outbound filter value carries no
// information: nil, empty string, empty collection, or empty map.
func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case map[string]string:
		return len(v) == 0
	default:
		return false
	}
}
