package utils

import "golang.org/x/net/publicsuffix"

// ApexDomain returns the registrable apex (eTLD+1) of a domain,
// falling back to the canonical input when no public suffix matches.
func ApexDomain(name string) string {
	name = CanonicalDomainName(name)
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		apex = name
	}
	return apex
}

// HasKnownSuffix reports whether a domain ends in a public suffix the
// embedded list recognizes as ICANN-managed. Used to flag likely typos
// in user-supplied block lists.
func HasKnownSuffix(name string) bool {
	name = CanonicalDomainName(name)
	if name == "" {
		return false
	}
	suffix, icann := publicsuffix.PublicSuffix(name)
	return icann && suffix != name
}
