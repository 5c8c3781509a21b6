package identify

import (
	"sort"
	"strings"

	"mailgate/internal/tenant/models"
)

// DomainIndex is the read-only view of known tenant domains the matcher
// needs. Directory snapshots implement it; the matcher never mutates it.
type DomainIndex interface {
	// Lookup resolves a normalized concrete domain (primary, support or
	// alias) to its owning record.
	Lookup(domain string) (models.DomainRecord, bool)
	// Domains lists every concrete domain, sorted ascending.
	Domains() []string
	// Patterns lists every wildcard pattern record.
	Patterns() []models.DomainRecord
}

// MatcherConfig carries the recognized pipeline toggles.
type MatcherConfig struct {
	EnableFuzzyMatching     bool
	EnableHierarchyMatching bool
	ConfidenceThreshold     float64
}

// DefaultMatcherConfig enables every strategy with the default fuzzy
// threshold.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		EnableFuzzyMatching:     true,
		EnableHierarchyMatching: true,
		ConfidenceThreshold:     DefaultFuzzyThreshold,
	}
}

// MatchDomain runs the strategy chain for a normalized candidate domain.
//
// Strategies are evaluated in fixed priority order and the first hit wins,
// even if a later strategy would score higher. This keeps resolution
// auditable and reproducible:
//
//	exact_match > alias_resolution > hierarchy_match > pattern_match > fuzzy_match
//
// Within a strategy, ties break on the longest exact suffix overlap with the
// candidate, then on the lexicographically smallest domain.
func MatchDomain(candidate string, index DomainIndex, cfg MatcherConfig) Match {
	if rec, ok := index.Lookup(candidate); ok {
		if rec.Type == models.DomainTypeAlias {
			return Match{Record: rec, Confidence: ConfidenceAlias, Method: MethodAliasResolution}
		}
		return Match{Record: rec, Confidence: ConfidenceExact, Method: MethodExactMatch}
	}

	if cfg.EnableHierarchyMatching {
		if m, ok := matchHierarchy(candidate, index); ok {
			return m
		}
	}

	if m, ok := matchPattern(candidate, index); ok {
		return m
	}

	if cfg.EnableFuzzyMatching {
		if m, ok := matchFuzzy(candidate, index, cfg.ConfidenceThreshold); ok {
			return m
		}
	}

	return Match{Method: MethodNoMatch}
}

// matchHierarchy walks the candidate's parent chain most-specific first, so
// the closest registered ancestor wins with the highest confidence.
func matchHierarchy(candidate string, index DomainIndex) (Match, bool) {
	for _, ancestor := range Hierarchy(candidate) {
		if ancestor == candidate {
			continue
		}
		rec, ok := index.Lookup(ancestor)
		if !ok {
			continue
		}
		depth := labelCount(StripWWW(candidate)) - labelCount(ancestor)
		if depth < 1 {
			depth = 1
		}
		return Match{Record: rec, Confidence: ancestorScore(depth), Method: MethodHierarchyMatch}, true
	}
	return Match{}, false
}

// matchPattern checks the candidate against registered wildcard patterns.
// "*.domain" matches any proper subdomain of domain, not the bare domain;
// "prefix.*" matches any domain whose first label is prefix.
func matchPattern(candidate string, index DomainIndex) (Match, bool) {
	var hits []models.DomainRecord
	for _, rec := range index.Patterns() {
		if patternMatches(rec.Value, candidate) {
			hits = append(hits, rec)
		}
	}
	if len(hits) == 0 {
		return Match{}, false
	}
	sort.Slice(hits, func(i, j int) bool {
		oi, oj := suffixOverlap(candidate, hits[i].Value), suffixOverlap(candidate, hits[j].Value)
		if oi != oj {
			return oi > oj
		}
		return hits[i].Value < hits[j].Value
	})
	return Match{Record: hits[0], Confidence: ConfidencePattern, Method: MethodPatternMatch}, true
}

func patternMatches(pattern, candidate string) bool {
	if base, ok := strings.CutPrefix(pattern, "*."); ok {
		return candidate != base && strings.HasSuffix(candidate, "."+base)
	}
	if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
		return strings.HasPrefix(candidate, prefix+".")
	}
	return false
}

// matchFuzzy scores every known domain and keeps the best. Acceptance is
// governed by the raw similarity score; the reported confidence is the raw
// score rescaled below the pattern anchor so the per-method confidence
// ordering holds.
func matchFuzzy(candidate string, index DomainIndex, threshold float64) (Match, bool) {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	best := ""
	bestScore := 0.0
	for _, known := range index.Domains() {
		score := Similarity(candidate, known)
		if score < threshold {
			continue
		}
		switch {
		case score > bestScore:
			best, bestScore = known, score
		case score == bestScore && best != "":
			oi, oj := suffixOverlap(candidate, known), suffixOverlap(candidate, best)
			if oi > oj || (oi == oj && known < best) {
				best = known
			}
		}
	}
	if best == "" {
		return Match{}, false
	}

	rec, ok := index.Lookup(best)
	if !ok {
		return Match{}, false
	}
	return Match{Record: rec, Confidence: fuzzyConfidence(bestScore, threshold), Method: MethodFuzzyMatch}, true
}

// fuzzyConfidence rescales a raw similarity from [threshold, 1) onto
// [threshold, FuzzyConfidenceCeil) preserving order.
func fuzzyConfidence(score, threshold float64) float64 {
	if score <= threshold {
		return threshold
	}
	span := 1.0 - threshold
	if span <= 0 {
		return threshold
	}
	return threshold + (score-threshold)*(FuzzyConfidenceCeil-threshold)/span
}

// suffixOverlap counts the common trailing bytes of two strings.
func suffixOverlap(a, b string) int {
	i, j := len(a), len(b)
	n := 0
	for i > 0 && j > 0 && a[i-1] == b[j-1] {
		i--
		j--
		n++
	}
	return n
}
