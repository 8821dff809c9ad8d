package domain

import (
	"sort"
	"strings"

	"github.com/pravsels/deepwork/internal/block/common/utils"
)

// Expand normalizes a raw domain list into the canonical blocking set.
//
// Each entry is trimmed, lowercased, and dropped when empty. Every domain
// not already carrying a "www." prefix gains a "www." sibling, so a block
// on "reddit.com" also covers "www.reddit.com". The result is de-duplicated
// and sorted ascending, independent of input order. Pure function.
func Expand(raw []string) []string {
	seen := make(map[string]struct{}, len(raw)*2)
	for _, d := range raw {
		d = utils.CanonicalDomainName(d)
		if d == "" {
			continue
		}
		seen[d] = struct{}{}
		if !strings.HasPrefix(d, "www.") {
			seen["www."+d] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
