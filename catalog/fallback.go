package catalog

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// builtinCatalogYAML is the fixed catalog served when the remote source is
// unreachable. It mirrors the shipped defaults so the explorer stays usable
// offline.
const builtinCatalogYAML = `
metadata:
  version: builtin-1.2.0
  total_queries: 6
  supported_modes: [standard, recommendations]
  available_filters:
    - consultantIds
    - fieldConsultantIds
    - clientIds
    - productIds
    - incumbentProductIds
    - mandateStatuses
    - ratings
    - influenceLevels
smart_queries:
  - id: consultant-coverage
    question: Which companies does this consultant's field team cover?
    template: >-
      MATCH (c:CONSULTANT)-[:EMPLOYS]->(f:FIELD_CONSULTANT)-[:COVERS]->(k:COMPANY)
      WHERE k.region = '$REGION' RETURN k AS coverage
    result_field: coverage
    auto_mode: standard
    required_filters: [consultantIds, fieldConsultantIds]
  - id: client-product-holdings
    question: What products does this client currently own?
    template: >-
      MATCH (k:COMPANY)-[o:OWNS]->(p:PRODUCT)
      WHERE k.region = '$REGION' RETURN p AS holdings
    result_field: holdings
    auto_mode: standard
    required_filters: [clientIds]
  - id: at-risk-mandates
    question: Which mandates are at risk in the selected region?
    template: >-
      MATCH (k:COMPANY)-[o:OWNS]->(p:PRODUCT)
      WHERE k.region = '$REGION' AND o.mandate_status = 'At Risk'
      RETURN o AS mandates
    result_field: mandates
    auto_mode: standard
    required_filters: [clientIds, mandateStatuses]
  - id: top-rated-products
    question: Which products hold a positive rating from covering consultants?
    template: >-
      MATCH (c:CONSULTANT)-[r:RATES]->(p:PRODUCT)
      WHERE p.region = '$REGION' AND r.rankgroup = 'Positive'
      RETURN p AS products
    result_field: products
    auto_mode: standard
    required_filters: [productIds, ratings]
  - id: incumbent-replacement-candidates
    question: Which incumbent products could be replaced for this client?
    template: >-
      MATCH (k:COMPANY)-[:OWNS]->(i:INCUMBENT_PRODUCT)<-[:BI_RECOMMENDS]-(p:PRODUCT)
      WHERE k.region = '$REGION' RETURN p AS candidates
    result_field: candidates
    auto_mode: auto
    required_filters: [clientIds, incumbentProductIds]
  - id: conversion-opportunities
    question: Where are the best conversion opportunities with high-influence coverage?
    template: >-
      MATCH (f:FIELD_CONSULTANT)-[cv:COVERS]->(k:COMPANY)-[o:OWNS]->(p:PRODUCT)
      WHERE k.region = '$REGION' AND cv.level_of_influence = 'High'
      RETURN k AS opportunities
    result_field: opportunities
    auto_mode: auto
    example_filters:
      influenceLevels: [High]
      mandateStatuses: [Conversion in Progress]
`

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
)

// BuiltinCatalog returns a deep copy of the fixed fallback catalog. The copy
// keeps callers from mutating the shared parse.
func BuiltinCatalog() *Catalog {
	builtinOnce.Do(func() {
		var parsed Catalog
		if err := yaml.Unmarshal([]byte(builtinCatalogYAML), &parsed); err != nil {
			// The fixture ships with the binary; failing to parse it is a
			// build defect, not a runtime condition.
			panic(fmt.Sprintf("builtin catalog fixture invalid: %v", err))
		}
		builtinCatalog = &parsed
	})
	return builtinCatalog.Clone()
}
