package identify

import (
	"mailgate/internal/tenant/models"
	id "mailgate/pkg/domain"
)

// Method names the strategy that produced an identification. The fixed set
// keeps resolution auditable: downstream consumers rely on these values.
type Method string

const (
	MethodExactMatch      Method = "exact_match"
	MethodAliasResolution Method = "alias_resolution"
	MethodHierarchyMatch  Method = "hierarchy_match"
	MethodPatternMatch    Method = "pattern_match"
	MethodFuzzyMatch      Method = "fuzzy_match"
	MethodNoMatch         Method = "no_match"
)

// Confidence anchors per strategy. Hierarchy and fuzzy confidences are
// computed per match but stay inside the documented ranges.
const (
	ConfidenceExact   = 1.0
	ConfidenceAlias   = 0.95
	ConfidencePattern = 0.85

	// FuzzyConfidenceCeil bounds fuzzy confidences below the pattern anchor
	// so the per-method confidence ordering holds.
	FuzzyConfidenceCeil = 0.85

	// DefaultFuzzyThreshold is the minimum raw similarity a fuzzy candidate
	// needs before it is accepted.
	DefaultFuzzyThreshold = 0.7
)

// Match is the outcome of running the strategy chain for one candidate
// domain. Record is the zero value when Method is no_match.
type Match struct {
	Record     models.DomainRecord
	Confidence float64
	Method     Method
}

// Matched reports whether a strategy produced a hit.
func (m Match) Matched() bool { return m.Method != MethodNoMatch }

// Result is an immutable identification outcome. One is always returned;
// Successful=false with MethodNoMatch signals failure, never an error.
type Result struct {
	InputDomain string      `json:"input_domain"`
	TenantID    id.TenantID `json:"tenant_id,omitempty"`
	Confidence  float64     `json:"confidence"`
	Method      Method      `json:"method"`
	DomainUsed  string      `json:"domain_used,omitempty"`
	Successful  bool        `json:"is_successful"`
}

// Suggestion ranks a tenant by similarity to an unidentified domain.
type Suggestion struct {
	TenantID id.TenantID `json:"tenant_id"`
	Score    float64     `json:"similarity_score"`
}

func noMatch(input string) Result {
	return Result{InputDomain: input, Method: MethodNoMatch}
}
