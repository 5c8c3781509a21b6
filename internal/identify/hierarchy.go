package identify

import (
	"sort"
	"strings"
)

// Hierarchy returns the parent-domain chain of a normalized domain, from most
// specific to least specific, ending at the two-label root. A leading "www."
// label is stripped before traversal; a domain with two or fewer labels is
// its own chain.
//
//	Hierarchy("api.v1.acme.com") == ["api.v1.acme.com", "v1.acme.com", "acme.com"]
func Hierarchy(domain string) []string {
	d := StripWWW(domain)
	labels := strings.Split(d, ".")
	if len(labels) <= 2 {
		return []string{d}
	}
	chain := make([]string, 0, len(labels)-1)
	for len(labels) >= 2 {
		chain = append(chain, strings.Join(labels, "."))
		labels = labels[1:]
	}
	return chain
}

// Variants returns the domain, its hierarchy parents, and a "www."-prefixed
// form of each, deduplicated and sorted. Variants are candidate expansion for
// alias registration only; matching a variant never reports a higher
// confidence than the strategy that found it.
func Variants(domain string) []string {
	set := make(map[string]struct{})
	for _, d := range Hierarchy(domain) {
		set[d] = struct{}{}
		set["www."+d] = struct{}{}
	}
	set[domain] = struct{}{}

	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// StripWWW removes one leading "www." label for hierarchy and similarity
// comparison. The canonical stored form keeps the label.
func StripWWW(domain string) string {
	if trimmed, ok := strings.CutPrefix(domain, "www."); ok && strings.Contains(trimmed, ".") {
		return trimmed
	}
	return domain
}

// labelCount returns the number of dot-separated labels in a domain.
func labelCount(domain string) int {
	return strings.Count(domain, ".") + 1
}

// IsAncestor reports whether parent is a proper hierarchy ancestor of child,
// ignoring leading "www." labels on either side.
func IsAncestor(parent, child string) bool {
	p, c := StripWWW(parent), StripWWW(child)
	return p != c && strings.HasSuffix(c, "."+p)
}
