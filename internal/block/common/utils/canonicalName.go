package utils

import "strings"

// CanonicalDomainName returns a domain name in canonical form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - No trailing dot, since hosts file entries never carry one.
func CanonicalDomainName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	// remove all trailing dots
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}
