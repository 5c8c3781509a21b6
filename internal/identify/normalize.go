package identify

import "strings"

// Normalize canonicalizes a raw domain string: lower-cases, strips a URL
// scheme and any path/query/fragment, strips one port suffix and one trailing
// dot. A leading "www." label is kept; hierarchy traversal strips it when
// comparing (see Hierarchy).
//
// Returns false when the input is empty, has no dot, or contains characters
// invalid in a domain label. Normalization is idempotent: feeding the output
// back in yields the same string.
func Normalize(raw string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(raw))
	if d == "" {
		return "", false
	}

	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimSuffix(d, ".")

	if !strings.Contains(d, ".") {
		return "", false
	}
	for _, label := range strings.Split(d, ".") {
		if !validLabel(label) {
			return "", false
		}
	}
	return d, true
}

// ExtractDomainFromEmail splits an address on its "@" and normalizes the
// domain part. Fails when the address has no "@", more than one, or an empty
// local or domain part.
func ExtractDomainFromEmail(raw string) (string, bool) {
	addr := strings.TrimSpace(raw)
	if strings.Count(addr, "@") != 1 {
		return "", false
	}
	at := strings.LastIndexByte(addr, '@')
	local, domain := addr[:at], addr[at+1:]
	if local == "" || domain == "" {
		return "", false
	}
	return Normalize(domain)
}

// validLabel accepts lowercase letters, digits and interior hyphens.
func validLabel(label string) bool {
	if label == "" {
		return false
	}
	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
