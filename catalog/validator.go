package catalog

import (
	"sort"

	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

// ValidationResult reports whether active filters satisfy a smart query's
// prerequisites, with enough detail to drive UI messaging directly.
type ValidationResult struct {
	IsValid             bool     `json:"is_valid"`
	MissingFilterKeys   []string `json:"missing_filter_keys,omitempty"`
	AvailableFilterKeys []string `json:"available_filter_keys,omitempty"`
}

// validationExcludedKeys are never treated as prerequisites: region is
// supplied separately at execution time and nodeTypes is a display concern.
var validationExcludedKeys = map[string]struct{}{
	"region":           {},
	graph.KeyRegions:   {},
	graph.KeyNodeTypes: {},
}

// ValidateFilters decides whether the active (or pending) filter set
// satisfies the query's prerequisites. The required-key set is the query's
// declared required-filter list when non-empty, else the key set of its
// example filters.
//
// Validity is at-least-one: ANY satisfied required key validates the query.
// This relaxation is deliberate; do not tighten it to all-of.
func ValidateFilters(q *SmartQuery, active *graph.FilterCriteria) ValidationResult {
	required := requiredKeys(q)
	if len(required) == 0 {
		// Nothing required: trivially valid
		return ValidationResult{IsValid: true}
	}

	if active == nil {
		active = &graph.FilterCriteria{}
	}

	var missing []string
	satisfied := false
	for _, key := range required {
		if keySatisfied(active, key) {
			satisfied = true
		} else {
			missing = append(missing, key)
		}
	}

	return ValidationResult{
		IsValid:             satisfied,
		MissingFilterKeys:   missing,
		AvailableFilterKeys: required,
	}
}

// requiredKeys resolves the query's prerequisite key set, excluding region
// and nodeTypes, sorted for stable messaging.
func requiredKeys(q *SmartQuery) []string {
	if q == nil {
		return nil
	}

	var raw []string
	if len(q.RequiredFilters) > 0 {
		raw = q.RequiredFilters
	} else {
		raw = make([]string, 0, len(q.ExampleFilters))
		for key := range q.ExampleFilters {
			raw = append(raw, key)
		}
	}

	keys := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, key := range raw {
		if key == "" {
			continue
		}
		if _, excluded := validationExcludedKeys[key]; excluded {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// keySatisfied reports whether the criteria hold a usable value for the key:
// a non-empty collection, or for showInactive a set flag.
func keySatisfied(active *graph.FilterCriteria, key string) bool {
	if key == graph.KeyShowInactive {
		return active.ShowInactive
	}
	return len(active.Values(key)) > 0
}
