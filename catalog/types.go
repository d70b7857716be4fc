// Package catalog manages the versioned list of smart queries: loading with
// remote-primary/builtin-fallback sourcing, TTL caching with eager
// invalidation on mutation, admission validation, operating-mode detection,
// and filter-prerequisite validation.
package catalog

import (
	"strings"
)

// Mode is a smart query's declared operating mode.
type Mode string

const (
	// ModeStandard surfaces ownership and coverage data.
	ModeStandard Mode = "standard"
	// ModeRecommendations surfaces incumbent-product and recommendation
	// relationship types instead.
	ModeRecommendations Mode = "recommendations"
	// ModeAuto defers the decision to the mode detector.
	ModeAuto Mode = "auto"
)

// IsValid reports whether the mode is one of the declared values.
func (m Mode) IsValid() bool {
	return m == ModeStandard || m == ModeRecommendations || m == ModeAuto
}

// RegionPlaceholder is the token a query template must carry; the executor
// substitutes the selected region at execution time.
const RegionPlaceholder = "$REGION"

// SmartQuery pairs a user-facing question with a parameterized graph-query
// template and a declared filter/mode contract. Immutable once admitted;
// catalog hot-swap invalidates caches instead of patching entries in place.
type SmartQuery struct {
	ID              string         `json:"id" yaml:"id"`
	Question        string         `json:"question" yaml:"question"`
	Template        string         `json:"template" yaml:"template"`
	ResultField     string         `json:"result_field" yaml:"result_field"`
	ExampleFilters  map[string]any `json:"example_filters,omitempty" yaml:"example_filters,omitempty"`
	RequiredFilters []string       `json:"required_filters,omitempty" yaml:"required_filters,omitempty"`
	Mode            Mode           `json:"auto_mode" yaml:"auto_mode"`
	Keywords        []string       `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Clone returns a deep copy of the query.
func (q *SmartQuery) Clone() *SmartQuery {
	clone := *q
	if q.ExampleFilters != nil {
		clone.ExampleFilters = make(map[string]any, len(q.ExampleFilters))
		for k, v := range q.ExampleFilters {
			clone.ExampleFilters[k] = v
		}
	}
	clone.RequiredFilters = append([]string(nil), q.RequiredFilters...)
	clone.Keywords = append([]string(nil), q.Keywords...)
	return &clone
}

// templateMentions reports a case-insensitive token match in the template.
func (q *SmartQuery) templateMentions(token string) bool {
	return strings.Contains(strings.ToUpper(q.Template), strings.ToUpper(token))
}

// Metadata describes the catalog version and capabilities advertised by the
// backend.
type Metadata struct {
	Version          string   `json:"version" yaml:"version"`
	TotalQueries     int      `json:"total_queries" yaml:"total_queries"`
	SupportedModes   []string `json:"supported_modes" yaml:"supported_modes"`
	AvailableFilters []string `json:"available_filters" yaml:"available_filters"`
}

// Catalog is one loaded snapshot of the smart-query list.
type Catalog struct {
	Queries  []SmartQuery `json:"smart_queries" yaml:"smart_queries"`
	Metadata Metadata     `json:"metadata" yaml:"metadata"`
}

// Get returns the query with the given ID, or nil.
func (c *Catalog) Get(id string) *SmartQuery {
	for i := range c.Queries {
		if c.Queries[i].ID == id {
			return &c.Queries[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	clone := &Catalog{Metadata: c.Metadata}
	clone.Metadata.SupportedModes = append([]string(nil), c.Metadata.SupportedModes...)
	clone.Metadata.AvailableFilters = append([]string(nil), c.Metadata.AvailableFilters...)
	clone.Queries = make([]SmartQuery, 0, len(c.Queries))
	for i := range c.Queries {
		clone.Queries = append(clone.Queries, *c.Queries[i].Clone())
	}
	return clone
}
