package execer

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/domain"
)

// Runner invokes external OS commands. Every failure comes back as a
// *domain.ExternalToolError; callers decide per site whether that is
// fatal or logged and ignored.
type Runner interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// RunInput executes a command with stdin attached to the given string.
	RunInput(ctx context.Context, stdin string, name string, args ...string) (string, error)
}

// System runs commands on the host with a bounded per-invocation timeout,
// so a wedged external tool cannot hang the lifecycle indefinitely.
type System struct {
	Timeout time.Duration
	Logger  log.Logger
}

// New creates a System runner. A zero timeout falls back to 15 seconds.
func New(timeout time.Duration, logger log.Logger) *System {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &System{Timeout: timeout, Logger: logger}
}

func (s *System) Run(ctx context.Context, name string, args ...string) (string, error) {
	return s.run(ctx, "", name, args...)
}

func (s *System) RunInput(ctx context.Context, stdin string, name string, args ...string) (string, error) {
	return s.run(ctx, stdin, name, args...)
}

func (s *System) run(ctx context.Context, stdin, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		s.Logger.Debug(map[string]any{
			"command": name,
			"args":    args,
			"error":   err.Error(),
		}, "external command failed")
		return string(out), &domain.ExternalToolError{
			Cmd:    append([]string{name}, args...),
			Output: string(out),
			Err:    err,
		}
	}

	s.Logger.Debug(map[string]any{
		"command": name,
		"args":    args,
	}, "external command succeeded")
	return string(out), nil
}
