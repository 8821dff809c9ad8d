// Package firewall implements the optional network-layer blocking rules.
// It is off by default: rejecting every IP a domain resolves to also
// rejects shared CDN infrastructure, which over-blocks unrelated sites.
// Removal still always runs during unblock to clean up rules left by
// earlier runs with the layer enabled.
package firewall

import (
	"context"
	"net"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
)

// RuleComment tags every rule this system creates so removal can find
// them without tracking state between processes.
const RuleComment = "deepwork-block"

// defaultCacheSize bounds the resolved-IP dedupe cache.
const defaultCacheSize = 1024

// LookupFunc resolves a domain to its IPv4 addresses.
type LookupFunc func(ctx context.Context, domain string) ([]net.IP, error)

// IPTables appends and removes REJECT rules on the OUTPUT chain.
type IPTables struct {
	run    execer.Runner
	logger log.Logger
	lookup LookupFunc

	// blocked remembers IPs that already have a rule so repeated domains
	// resolving to shared addresses do not stack duplicate rules.
	blocked *lru.Cache[string, struct{}]
}

// New creates an IPTables gateway. A nil lookup uses the system resolver.
func New(run execer.Runner, logger log.Logger, lookup LookupFunc) (*IPTables, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if lookup == nil {
		lookup = systemLookup
	}
	cache, err := lru.New[string, struct{}](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &IPTables{run: run, logger: logger, lookup: lookup, blocked: cache}, nil
}

func systemLookup(ctx context.Context, domain string) ([]net.IP, error) {
	addrs, err := net.DefaultResolver.LookupIP(ctx, "ip4", domain)
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

// Apply resolves each domain and appends a tagged REJECT rule per unique
// address. Resolution and rule failures are logged per entry; a domain
// that does not resolve is skipped, not fatal.
func (t *IPTables) Apply(ctx context.Context, domains []string) error {
	added := 0
	for _, d := range domains {
		ips, err := t.lookup(ctx, d)
		if err != nil {
			t.logger.Warn(map[string]any{
				"domain": d,
				"error":  err.Error(),
			}, "could not resolve domain for firewall rule")
			continue
		}
		for _, ip := range ips {
			addr := ip.String()
			if _, seen := t.blocked.Get(addr); seen {
				continue
			}
			_, err := t.run.Run(ctx, "iptables", "-A", "OUTPUT",
				"-d", addr,
				"-j", "REJECT",
				"-m", "comment", "--comment", RuleComment)
			if err != nil {
				t.logger.Warn(map[string]any{
					"ip":    addr,
					"error": err.Error(),
				}, "could not add iptables rule")
				continue
			}
			t.blocked.Add(addr, struct{}{})
			added++
		}
	}
	if added > 0 {
		t.logger.Info(map[string]any{"rules": added}, "iptables rules added")
	}
	return nil
}

// Remove deletes every OUTPUT rule tagged with RuleComment, in reverse
// line order so earlier deletions do not shift later line numbers.
// Absence of tagged rules is a successful no-op.
func (t *IPTables) Remove(ctx context.Context) error {
	out, err := t.run.Run(ctx, "iptables", "-L", "OUTPUT", "-n", "--line-numbers", "-v")
	if err != nil {
		return err
	}

	lines := taggedLineNumbers(out)
	sort.Sort(sort.Reverse(sort.IntSlice(lines)))

	for _, n := range lines {
		if _, err := t.run.Run(ctx, "iptables", "-D", "OUTPUT", strconv.Itoa(n)); err != nil {
			t.logger.Warn(map[string]any{
				"line":  n,
				"error": err.Error(),
			}, "could not delete iptables rule")
		}
	}

	if len(lines) > 0 {
		t.logger.Info(map[string]any{"rules": len(lines)}, "iptables rules removed")
	}
	t.blocked.Purge()
	return nil
}

// taggedLineNumbers extracts the line numbers of rules carrying the
// deepwork comment from `iptables -L OUTPUT --line-numbers` output.
func taggedLineNumbers(out string) []int {
	var nums []int
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, RuleComment) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}
