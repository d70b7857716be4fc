package catalog

import (
	"fmt"
	"strings"

	"github.com/prabhakarm7/sn-graph-sub002/errors"
)

// Admission rule messages. Admission reports every violated rule, not just
// the first, so operators can fix a definition in one pass.
const (
	violationNoID          = "query id is required"
	violationNoQuestion    = "question text is required"
	violationNoPlaceholder = "template must contain the " + RegionPlaceholder + " region placeholder"
	violationBadMode       = "declared mode must be standard, recommendations, or auto"
	violationNoFilters     = "at least one required filter key (or example filter) must be declared"
	violationNoResultField = "template must name a result field"
)

// AdmissionViolations returns every admission rule the definition violates.
// An empty slice means the query is admissible.
func AdmissionViolations(q *SmartQuery) []string {
	var violations []string

	if strings.TrimSpace(q.ID) == "" {
		violations = append(violations, violationNoID)
	}
	if strings.TrimSpace(q.Question) == "" {
		violations = append(violations, violationNoQuestion)
	}
	if !strings.Contains(q.Template, RegionPlaceholder) {
		violations = append(violations, violationNoPlaceholder)
	}
	if !q.Mode.IsValid() {
		violations = append(violations, violationBadMode)
	}
	// The validator falls back to example-filter keys when no required list
	// is declared, so either satisfies the prerequisite rule.
	if len(q.RequiredFilters) == 0 && len(q.ExampleFilters) == 0 {
		violations = append(violations, violationNoFilters)
	}
	if strings.TrimSpace(q.ResultField) == "" {
		violations = append(violations, violationNoResultField)
	}

	return violations
}

// Admit validates a definition for catalog admission, returning a
// TemplateError carrying the full violation list on failure.
func Admit(q *SmartQuery) error {
	if q == nil {
		return errors.WrapInvalid(fmt.Errorf("nil query"), "Catalog", "Admit", "definition check")
	}
	if violations := AdmissionViolations(q); len(violations) > 0 {
		return &errors.TemplateError{QueryID: q.ID, Violations: violations}
	}
	return nil
}
