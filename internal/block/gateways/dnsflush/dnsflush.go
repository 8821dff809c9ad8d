// Package dnsflush evicts cached name-resolution state from the OS so
// fresh hosts file entries take effect immediately. Everything here is
// best-effort: the hosts redirect works without the flush, just with a
// delay until cached answers expire.
package dnsflush

import (
	"context"
	"errors"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
)

// Flusher clears the OS resolver cache.
type Flusher struct {
	run    execer.Runner
	logger log.Logger
}

// New creates a Flusher.
func New(run execer.Runner, logger log.Logger) *Flusher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Flusher{run: run, logger: logger}
}

// Flush tries each known flush command in order. It returns the joined
// errors only when every mechanism failed; a single success is enough.
func (f *Flusher) Flush(ctx context.Context) error {
	commands := [][]string{
		{"resolvectl", "flush-caches"},
		{"systemctl", "restart", "systemd-resolved"},
	}

	var errs []error
	for _, cmd := range commands {
		if _, err := f.run.Run(ctx, cmd[0], cmd[1:]...); err != nil {
			errs = append(errs, err)
			continue
		}
		f.logger.Info(map[string]any{"command": cmd[0]}, "DNS cache flushed")
		return nil
	}
	return errors.Join(errs...)
}
