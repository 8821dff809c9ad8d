// Package scheduler arranges the automatic release: a one-shot OS job
// bound to an absolute wall-clock time, so the unlock fires on schedule
// even if this process is long gone or the machine suspends in between.
package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
	"github.com/pravsels/deepwork/internal/block/repos/unlockfile"
)

// UnitName is the fixed transient unit for the scheduled release. Using
// one name means re-scheduling replaces rather than duplicates.
const UnitName = "deepwork-unblock"

// calendarStamp is the systemd --on-calendar time format.
const calendarStamp = "2006-01-02 15:04:05"

// Scheduler registers the release job and persists the unlock time.
type Scheduler struct {
	run     execer.Runner
	unlocks *unlockfile.Store
	logger  log.Logger
}

// New creates a Scheduler.
func New(run execer.Runner, unlocks *unlockfile.Store, logger log.Logger) *Scheduler {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Scheduler{run: run, unlocks: unlocks, logger: logger}
}

// Schedule persists the unlock time and registers command to run at the
// absolute time at. A stale unit under the same name is replaced. When
// systemd-run fails it falls back to the at(1) queue; only if both fail
// is an error returned, and the caller treats even that as non-fatal:
// the block still stands, only the automatic release is lost.
func (s *Scheduler) Schedule(ctx context.Context, at time.Time, command []string) error {
	// persist first so status display works even in degraded mode
	if err := s.unlocks.Write(at); err != nil {
		s.logger.Warn(map[string]any{"error": err.Error()}, "could not persist unlock time")
	}

	// clear any stale registration under our unit name
	if _, err := s.run.Run(ctx, "systemctl", "stop", UnitName+".timer"); err != nil {
		s.logger.Debug(map[string]any{"error": err.Error()}, "no stale release timer to stop")
	}
	if _, err := s.run.Run(ctx, "systemctl", "reset-failed", UnitName); err != nil {
		s.logger.Debug(map[string]any{"error": err.Error()}, "no failed release unit to reset")
	}

	stamp := at.Format(calendarStamp)
	args := append([]string{"--on-calendar", stamp, "--unit", UnitName}, command...)
	_, primaryErr := s.run.Run(ctx, "systemd-run", args...)
	if primaryErr == nil {
		s.logger.Info(map[string]any{"at": stamp, "unit": UnitName}, "automatic release scheduled")
		return nil
	}

	s.logger.Warn(map[string]any{
		"error": primaryErr.Error(),
	}, "systemd-run scheduling failed, falling back to at")

	_, fallbackErr := s.run.RunInput(ctx, strings.Join(command, " ")+"\n", "at", at.Format("15:04"))
	if fallbackErr == nil {
		s.logger.Info(map[string]any{"at": at.Format("15:04")}, "automatic release scheduled via at")
		return nil
	}

	return errors.Join(primaryErr, fallbackErr)
}

// Cancel removes the persisted unlock time. The OS-level job is left
// alone: unblock is idempotent, so a release firing after the session
// already ended is harmless.
func (s *Scheduler) Cancel(ctx context.Context) error {
	return s.unlocks.Remove()
}

// UnlockTime returns the persisted release time for status display.
func (s *Scheduler) UnlockTime() (time.Time, error) {
	return s.unlocks.Read()
}
