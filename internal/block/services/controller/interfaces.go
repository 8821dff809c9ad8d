package controller

import (
	"context"
	"time"

	"github.com/pravsels/deepwork/internal/block/repos/journal"
)

// Hosts is the override-region custodian for the system hosts file.
type Hosts interface {
	ApplyRegion(ctx context.Context, domains []string) error
	RemoveRegion(ctx context.Context) error
	Lock(ctx context.Context) error
	IsLocked(ctx context.Context) (bool, error)
	HasRegion() (bool, error)
	RegionDomains() ([]string, error)
}

// Releases registers and cancels the scheduled automatic release.
type Releases interface {
	Schedule(ctx context.Context, at time.Time, command []string) error
	Cancel(ctx context.Context) error
	UnlockTime() (time.Time, error)
}

// Flusher evicts cached name-resolution state from the OS.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Firewall applies and removes network-layer blocking rules.
type Firewall interface {
	Apply(ctx context.Context, domains []string) error
	Remove(ctx context.Context) error
}

// Services supervises the detached block page process.
type Services interface {
	StartDetached(ctx context.Context, unit, description string, argv []string) error
	Stop(ctx context.Context, unit string) error
}

// Journal records lifecycle transitions for the audit trail.
type Journal interface {
	Append(ev journal.Event) error
}
