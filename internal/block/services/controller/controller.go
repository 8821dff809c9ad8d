// Package controller implements the block lifecycle state machine:
// UNBLOCKED -> BLOCKING -> BLOCKED -> UNBLOCKED. It is the single owner
// of every blocking layer and the only place that decides their ordering.
//
// Block application is monotonic. Once mutation starts there is no
// rollback: a failed best-effort layer degrades the session (no block
// page, no automatic release) but never reverts an applied one, because
// a half-applied block is still a block.
package controller

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/pravsels/deepwork/internal/block/common/clock"
	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/domain"
	"github.com/pravsels/deepwork/internal/block/repos/journal"
)

const (
	// PageUnit is the transient unit name for the block page service.
	PageUnit = "deepwork-blockpage"

	pageDescription = "DeepWork Block Page Server"
)

// Controller drives block and unblock transitions. It executes
// synchronously and is non-reentrant: one lifecycle call at a time.
type Controller struct {
	hosts    Hosts
	releases Releases
	flusher  Flusher
	firewall Firewall
	services Services
	journal  Journal
	clock    clock.Clock
	logger   log.Logger

	firewallEnabled bool
	executable      string

	// injectable for tests
	euid     func() int
	lookPath func(string) (string, error)
	goos     string
}

// Options configures a Controller. Journal and Firewall may be nil;
// the corresponding steps are skipped.
type Options struct {
	Hosts    Hosts
	Releases Releases
	Flusher  Flusher
	Firewall Firewall
	Services Services
	Journal  Journal
	Clock    clock.Clock
	Logger   log.Logger

	// FirewallEnabled turns on network-layer rule application during
	// block. Removal during unblock always runs regardless.
	FirewallEnabled bool

	// Executable is the binary path used to build the scheduled release
	// and block page commands. Defaults to the current executable.
	Executable string
}

// New creates a Controller from options.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	exe := opts.Executable
	if exe == "" {
		if path, err := os.Executable(); err == nil {
			exe = path
		} else {
			exe = "deepwork"
		}
	}
	return &Controller{
		hosts:           opts.Hosts,
		releases:        opts.Releases,
		flusher:         opts.Flusher,
		firewall:        opts.Firewall,
		services:        opts.Services,
		journal:         opts.Journal,
		clock:           clk,
		logger:          logger,
		firewallEnabled: opts.FirewallEnabled,
		executable:      exe,
		euid:            os.Geteuid,
		lookPath:        exec.LookPath,
		goos:            runtime.GOOS,
	}
}

// Block activates every blocking layer for the given domains until
// now+duration. Preconditions (privilege, platform) fail before any side
// effect; after that, load-bearing steps (hosts region, lock) propagate
// errors while best-effort steps only log.
func (c *Controller) Block(ctx context.Context, domains []string, duration time.Duration, servePage bool) error {
	if err := c.checkPreconditions("block"); err != nil {
		return err
	}

	expanded := domain.Expand(domains)
	if len(expanded) == 0 {
		return fmt.Errorf("no domains to block")
	}
	now := c.clock.Now()
	unlockAt := now.Add(duration)

	c.logger.Info(map[string]any{
		"domains":   len(expanded),
		"duration":  duration.String(),
		"unlock_at": unlockAt.Format(time.RFC3339),
	}, "activating block")

	// load-bearing: the hosts region is the block
	if err := c.hosts.ApplyRegion(ctx, expanded); err != nil {
		return fmt.Errorf("applying hosts region: %w", err)
	}

	// network-layer rules, only when explicitly enabled
	if c.firewallEnabled && c.firewall != nil {
		if err := c.firewall.Apply(ctx, expanded); err != nil {
			c.logger.Warn(map[string]any{"error": err.Error()}, "firewall rules not applied")
		}
	}

	// best-effort: cached answers expire on their own eventually
	if err := c.flusher.Flush(ctx); err != nil {
		c.logger.Warn(map[string]any{"error": err.Error()}, "DNS cache flush failed")
	}

	// best-effort: losing the automatic release leaves a manual unblock,
	// which is still a working block
	if err := c.releases.Schedule(ctx, unlockAt, []string{c.executable, "unblock"}); err != nil {
		c.logger.Error(map[string]any{
			"error": err.Error(),
		}, "automatic release not scheduled; run unblock manually after the deadline")
	}

	// load-bearing, and last: never lock the file around stale or
	// absent content
	if err := c.hosts.Lock(ctx); err != nil {
		return fmt.Errorf("locking hosts file: %w", err)
	}

	if servePage {
		err := c.services.StartDetached(ctx, PageUnit, pageDescription, []string{c.executable, "serve"})
		if err != nil {
			c.logger.Warn(map[string]any{"error": err.Error()}, "block page not started; traffic is still blocked")
		}
	}

	c.appendJournal(journal.Event{At: now, Action: "block", Domains: expanded, UnlockAt: unlockAt})

	c.logger.Info(map[string]any{
		"unlock_at": unlockAt.Format(time.RFC3339),
	}, "block active until the timer expires")
	return nil
}

// Unblock reverses every layer. All steps are best-effort and tolerate
// absence, so it is safe from any state, including a partially applied
// block or no block at all.
func (c *Controller) Unblock(ctx context.Context) error {
	if c.euid() != 0 {
		return &domain.PrivilegeError{Op: "unblock"}
	}

	c.logger.Info(nil, "removing block")

	// also clears the immutable flag, so from here manual repair is
	// always possible
	if err := c.hosts.RemoveRegion(ctx); err != nil {
		c.logger.Error(map[string]any{"error": err.Error()}, "could not remove hosts region")
	}

	if c.firewall != nil {
		if err := c.firewall.Remove(ctx); err != nil {
			c.logger.Warn(map[string]any{"error": err.Error()}, "could not clean firewall rules")
		}
	}

	if err := c.flusher.Flush(ctx); err != nil {
		c.logger.Warn(map[string]any{"error": err.Error()}, "DNS cache flush failed")
	}

	if err := c.services.Stop(ctx, PageUnit); err != nil {
		c.logger.Debug(map[string]any{"error": err.Error()}, "block page was not running")
	}

	if err := c.releases.Cancel(ctx); err != nil {
		c.logger.Warn(map[string]any{"error": err.Error()}, "could not remove unlock time file")
	}

	c.appendJournal(journal.Event{At: c.clock.Now(), Action: "unblock"})

	c.logger.Info(nil, "block removed")
	return nil
}

// Status reconstructs the current session from the hosts region and the
// unlock-time side-car. Either signal may be missing; an absent side-car
// reads as "unlock time unknown", never as inactive.
func (c *Controller) Status(ctx context.Context) (domain.Session, error) {
	var s domain.Session

	active, err := c.hosts.HasRegion()
	if err != nil {
		return s, fmt.Errorf("inspecting hosts file: %w", err)
	}
	s.Active = active

	if active {
		if domains, err := c.hosts.RegionDomains(); err == nil {
			s.Domains = domains
		}
	}

	if locked, err := c.hosts.IsLocked(ctx); err == nil {
		s.Locked = locked
	}

	if at, err := c.releases.UnlockTime(); err == nil {
		s.UnlockAt = at
		s.UnlockKnown = true
	} else if !domain.IsNotFound(err) {
		c.logger.Warn(map[string]any{"error": err.Error()}, "could not read unlock time")
	}

	return s, nil
}

// checkPreconditions enforces the hard block() preconditions: effective
// root and a platform carrying both the immutable-attribute and the
// scheduling mechanism. Runs before any mutation.
func (c *Controller) checkPreconditions(op string) error {
	if c.euid() != 0 {
		return &domain.PrivilegeError{Op: op}
	}
	if c.goos != "linux" {
		return &domain.PlatformError{Reason: "blocking requires linux (chattr and systemd-run)"}
	}
	if _, err := c.lookPath("chattr"); err != nil {
		return &domain.PlatformError{Reason: "chattr not found in PATH"}
	}
	if _, err := c.lookPath("systemd-run"); err != nil {
		return &domain.PlatformError{Reason: "systemd-run not found in PATH"}
	}
	return nil
}

func (c *Controller) appendJournal(ev journal.Event) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Append(ev); err != nil {
		c.logger.Warn(map[string]any{"error": err.Error()}, "could not record journal event")
	}
}
