package utils

import "testing"

func TestCanonicalDomainName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Example.COM", "example.com"},
		{"  reddit.com  ", "reddit.com"},
		{"news.ycombinator.com.", "news.ycombinator.com"},
		{"trailing.dots...", "trailing.dots"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CanonicalDomainName(tc.in); got != tc.want {
			t.Errorf("CanonicalDomainName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestApexDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"www.reddit.com", "reddit.com"},
		{"news.bbc.co.uk", "bbc.co.uk"},
		{"example.com", "example.com"},
		// no recognizable suffix: fall back to canonical input
		{"localhost", "localhost"},
	}
	for _, tc := range cases {
		if got := ApexDomain(tc.in); got != tc.want {
			t.Errorf("ApexDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHasKnownSuffix(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"reddit.com", true},
		{"bbc.co.uk", true},
		{"localhost", false},
		{"intranet.corp", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := HasKnownSuffix(tc.in); got != tc.want {
			t.Errorf("HasKnownSuffix(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
