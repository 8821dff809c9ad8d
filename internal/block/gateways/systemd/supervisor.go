// Package systemd runs named background services detached from this
// process via systemd-run, so the block page keeps serving after the
// controller exits.
package systemd

import (
	"context"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
)

// Supervisor manages detached, persistent service processes by unit name.
type Supervisor interface {
	// StartDetached launches argv as a transient unit that outlives the
	// caller. Any prior instance under the same name is stopped first, so
	// restarts are idempotent.
	StartDetached(ctx context.Context, unit, description string, argv []string) error

	// Stop terminates the named unit. Stopping an absent unit is a no-op.
	Stop(ctx context.Context, unit string) error
}

// Transient implements Supervisor with systemd-run transient units.
type Transient struct {
	run    execer.Runner
	logger log.Logger
}

// New creates a Transient supervisor.
func New(run execer.Runner, logger log.Logger) *Transient {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Transient{run: run, logger: logger}
}

func (s *Transient) StartDetached(ctx context.Context, unit, description string, argv []string) error {
	// stop any existing instance first; restart must be idempotent
	if err := s.Stop(ctx, unit); err != nil {
		s.logger.Debug(map[string]any{
			"unit":  unit,
			"error": err.Error(),
		}, "no prior unit instance to stop")
	}

	args := append([]string{"--unit", unit, "--description", description}, argv...)
	if _, err := s.run.Run(ctx, "systemd-run", args...); err != nil {
		return err
	}

	s.logger.Info(map[string]any{"unit": unit}, "detached service started")
	return nil
}

func (s *Transient) Stop(ctx context.Context, unit string) error {
	if _, err := s.run.Run(ctx, "systemctl", "stop", unit); err != nil {
		return err
	}
	s.logger.Info(map[string]any{"unit": unit}, "service stopped")
	return nil
}
