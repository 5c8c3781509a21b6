package identify

import (
	"github.com/agnivade/levenshtein"
)

// Similarity scores how alike two domains are, in [0,1].
//
//   - 1.0 iff the domains are equal after normalization.
//   - [0.7, 0.9] when one domain is a hierarchy ancestor of the other,
//     higher for closer relationships, never 1.0 unless equal.
//   - Otherwise an edit-distance ratio normalized by the longer domain, so
//     unrelated domains score near 0.
//
// Pure and deterministic; safe for concurrent use.
func Similarity(a, b string) float64 {
	da, db := comparable(a), comparable(b)
	if da == db {
		return 1.0
	}

	sa, sb := StripWWW(da), StripWWW(db)
	if sa == sb {
		// Same domain modulo a www. label: treat as an immediate relative.
		return ancestorScore(1)
	}
	if IsAncestor(sa, sb) || IsAncestor(sb, sa) {
		depth := labelCount(sa) - labelCount(sb)
		if depth < 0 {
			depth = -depth
		}
		return ancestorScore(depth)
	}

	longer := len(da)
	if len(db) > longer {
		longer = len(db)
	}
	if longer == 0 {
		return 0.0
	}
	dist := levenshtein.ComputeDistance(da, db)
	score := 1.0 - float64(dist)/float64(longer)
	if score < 0 {
		return 0.0
	}
	return score
}

// ancestorScore maps the label distance between a domain and its ancestor to
// a confidence in [0.7, 0.9]: one label apart scores 0.9, each further label
// costs 0.1 down to the 0.7 floor.
func ancestorScore(depth int) float64 {
	score := 0.9 - 0.1*float64(depth-1)
	if score < 0.7 {
		return 0.7
	}
	return score
}

// comparable lower-cases and strips URL artifacts without rejecting the
// input; similarity must stay total even for odd strings.
func comparable(raw string) string {
	if d, ok := Normalize(raw); ok {
		return d
	}
	return raw
}
