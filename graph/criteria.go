package graph

// Internal filter vocabulary. These keys are stable: the validator, the
// translator, and the UI controls all speak them.
const (
	KeyRegions              = "regions"
	KeyNodeTypes            = "nodeTypes"
	KeySalesRegions         = "sales_regions"
	KeyChannels             = "channels"
	KeyRatings              = "ratings"
	KeyInfluenceLevels      = "influenceLevels"
	KeyAssetClasses         = "assetClasses"
	KeyConsultantIDs        = "consultantIds"
	KeyFieldConsultantIDs   = "fieldConsultantIds"
	KeyClientIDs            = "clientIds"
	KeyProductIDs           = "productIds"
	KeyIncumbentProductIDs  = "incumbentProductIds"
	KeyClientAdvisorIDs     = "clientAdvisorIds"
	KeyConsultantAdvisorIDs = "consultantAdvisorIds"
	KeyMandateStatuses      = "mandateStatuses"
	KeyShowInactive         = "showInactive"
)

// CriteriaKeys lists every internal filter key in a stable order.
var CriteriaKeys = []string{
	KeyRegions,
	KeyNodeTypes,
	KeySalesRegions,
	KeyChannels,
	KeyRatings,
	KeyInfluenceLevels,
	KeyAssetClasses,
	KeyConsultantIDs,
	KeyFieldConsultantIDs,
	KeyClientIDs,
	KeyProductIDs,
	KeyIncumbentProductIDs,
	KeyClientAdvisorIDs,
	KeyConsultantAdvisorIDs,
	KeyMandateStatuses,
	KeyShowInactive,
}

// FilterCriteria is a sparse selection over the filter dimensions. A nil or
// empty slice means the dimension is unconstrained.
type FilterCriteria struct {
	Regions              []string `json:"regions,omitempty"`
	NodeTypes            []string `json:"nodeTypes,omitempty"`
	SalesRegions         []string `json:"sales_regions,omitempty"`
	Channels             []string `json:"channels,omitempty"`
	Ratings              []string `json:"ratings,omitempty"`
	InfluenceLevels      []string `json:"influenceLevels,omitempty"`
	AssetClasses         []string `json:"assetClasses,omitempty"`
	ConsultantIDs        []string `json:"consultantIds,omitempty"`
	FieldConsultantIDs   []string `json:"fieldConsultantIds,omitempty"`
	ClientIDs            []string `json:"clientIds,omitempty"`
	ProductIDs           []string `json:"productIds,omitempty"`
	IncumbentProductIDs  []string `json:"incumbentProductIds,omitempty"`
	ClientAdvisorIDs     []string `json:"clientAdvisorIds,omitempty"`
	ConsultantAdvisorIDs []string `json:"consultantAdvisorIds,omitempty"`
	MandateStatuses      []string `json:"mandateStatuses,omitempty"`
	ShowInactive         bool     `json:"showInactive,omitempty"`
}

// slotFor maps a key to the slice holding its values, or nil for
// showInactive which is a flag rather than a selection.
func (fc *FilterCriteria) slotFor(key string) *[]string {
	switch key {
	case KeyRegions:
		return &fc.Regions
	case KeyNodeTypes:
		return &fc.NodeTypes
	case KeySalesRegions:
		return &fc.SalesRegions
	case KeyChannels:
		return &fc.Channels
	case KeyRatings:
		return &fc.Ratings
	case KeyInfluenceLevels:
		return &fc.InfluenceLevels
	case KeyAssetClasses:
		return &fc.AssetClasses
	case KeyConsultantIDs:
		return &fc.ConsultantIDs
	case KeyFieldConsultantIDs:
		return &fc.FieldConsultantIDs
	case KeyClientIDs:
		return &fc.ClientIDs
	case KeyProductIDs:
		return &fc.ProductIDs
	case KeyIncumbentProductIDs:
		return &fc.IncumbentProductIDs
	case KeyClientAdvisorIDs:
		return &fc.ClientAdvisorIDs
	case KeyConsultantAdvisorIDs:
		return &fc.ConsultantAdvisorIDs
	case KeyMandateStatuses:
		return &fc.MandateStatuses
	default:
		return nil
	}
}

// Values returns the selection for a key, or nil when unconstrained or the
// key is unknown.
func (fc *FilterCriteria) Values(key string) []string {
	if slot := fc.slotFor(key); slot != nil {
		return *slot
	}
	return nil
}

// IsZero reports whether no dimension is constrained. The showInactive flag
// alone does not make criteria non-zero: it widens rather than narrows.
func (fc *FilterCriteria) IsZero() bool {
	for _, key := range CriteriaKeys {
		if key == KeyShowInactive {
			continue
		}
		if len(fc.Values(key)) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy; the caller can mutate it freely.
func (fc *FilterCriteria) Clone() *FilterCriteria {
	clone := &FilterCriteria{ShowInactive: fc.ShowInactive}
	for _, key := range CriteriaKeys {
		src := fc.slotFor(key)
		if src == nil || len(*src) == 0 {
			continue
		}
		dst := clone.slotFor(key)
		*dst = append([]string(nil), *src...)
	}
	return clone
}

// ToMap converts the criteria to its sparse map form: empty selections are
// absent, showInactive appears only when set.
func (fc *FilterCriteria) ToMap() map[string]any {
	m := make(map[string]any)
	for _, key := range CriteriaKeys {
		if key == KeyShowInactive {
			continue
		}
		if values := fc.Values(key); len(values) > 0 {
			m[key] = append([]string(nil), values...)
		}
	}
	if fc.ShowInactive {
		m[KeyShowInactive] = true
	}
	return m
}

// CriteriaFromMap builds criteria from the sparse map form. Unknown keys are
// ignored; empty collections normalize to absence. String values are accepted
// as single-element selections, matching what loosely typed UI payloads send.
func CriteriaFromMap(m map[string]any) *FilterCriteria {
	fc := &FilterCriteria{}
	for key, raw := range m {
		if key == KeyShowInactive {
			if flag, ok := raw.(bool); ok {
				fc.ShowInactive = flag
			}
			continue
		}
		slot := fc.slotFor(key)
		if slot == nil {
			continue
		}
		if values := toStrings(raw); len(values) > 0 {
			*slot = values
		}
	}
	return fc
}

// toStrings coerces a filter value to a string slice. Nil, empty strings,
// and empty collections all collapse to nil.
func toStrings(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}
