// Package hostsfile is the exclusive custodian of the deepwork region in
// the system hosts file. It owns exactly one delimited block of entries;
// every byte outside the markers is preserved untouched.
package hostsfile

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/domain"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
)

const (
	// MarkerStart and MarkerEnd delimit the managed region. Content between
	// them is discarded unconditionally on every rewrite, whatever put it
	// there, so stale or duplicated regions can never accumulate.
	MarkerStart = "# >>> DEEPWORK BLOCK START - DO NOT EDIT <<<"
	MarkerEnd   = "# >>> DEEPWORK BLOCK END <<<"

	loopbackV4 = "127.0.0.1"
	loopbackV6 = "::1"
)

// Manager owns the marked region and the immutable-flag lock on one hosts
// file. It is not safe for concurrent use; the lifecycle controller is its
// only caller.
type Manager struct {
	path   string
	run    execer.Runner
	logger log.Logger

	// injectable for tests
	euid     func() int
	lookPath func(string) (string, error)
}

// New creates a Manager for the hosts file at path.
func New(path string, run execer.Runner, logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Manager{
		path:     path,
		run:      run,
		logger:   logger,
		euid:     os.Geteuid,
		lookPath: exec.LookPath,
	}
}

// Path returns the managed hosts file path.
func (m *Manager) Path() string {
	return m.path
}

// IsLocked reports whether the immutable attribute is set on the hosts file.
func (m *Manager) IsLocked(ctx context.Context) (bool, error) {
	out, err := m.run.Run(ctx, "lsattr", m.path)
	if err != nil {
		return false, err
	}
	// lsattr prints "----i---------e------- /etc/hosts"
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return false, fmt.Errorf("unexpected lsattr output for %s: %q", m.path, out)
	}
	return strings.ContainsRune(fields[0], 'i'), nil
}

// Unlock clears the immutable attribute. Safe to call when the file is
// already mutable; failures are logged but never surfaced, so cleanup
// paths can always proceed.
func (m *Manager) Unlock(ctx context.Context) {
	if _, err := m.run.Run(ctx, "chattr", "-i", m.path); err != nil {
		m.logger.Debug(map[string]any{
			"path":  m.path,
			"error": err.Error(),
		}, "chattr -i failed, file may already be mutable")
		return
	}
	m.logger.Debug(map[string]any{"path": m.path}, "immutable flag cleared")
}

// Lock sets the immutable attribute on the hosts file. This is the step
// that makes an active block irreversible to an impatient user: even root
// has to clear the flag before editing the file.
func (m *Manager) Lock(ctx context.Context) error {
	if runtime.GOOS != "linux" {
		return &domain.PlatformError{Reason: "immutable file attribute requires linux chattr"}
	}
	if _, err := m.lookPath("chattr"); err != nil {
		return &domain.PlatformError{Reason: "chattr not found in PATH"}
	}
	if _, err := m.run.Run(ctx, "chattr", "+i", m.path); err != nil {
		if m.euid() != 0 {
			return &domain.PrivilegeError{Op: "lock hosts file"}
		}
		return err
	}
	m.logger.Info(map[string]any{"path": m.path}, "hosts file locked with immutable flag")
	return nil
}

// ApplyRegion rewrites the managed region to contain exactly the given
// domains, each mapped to the IPv4 and IPv6 loopback addresses. Any prior
// region is stripped first; all other lines keep their original relative
// order. Domains are written in sorted order so output is deterministic.
func (m *Manager) ApplyRegion(ctx context.Context, domains []string) error {
	m.Unlock(ctx)

	raw, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", m.path, err)
	}

	kept, _ := stripRegion(string(raw))

	var b strings.Builder
	b.WriteString(kept)
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(MarkerStart + "\n")
	for _, d := range domains {
		b.WriteString(loopbackV4 + " " + d + "\n")
		b.WriteString(loopbackV6 + " " + d + "\n")
	}
	b.WriteString(MarkerEnd + "\n")

	if err := writeAtomic(m.path, b.String()); err != nil {
		return err
	}

	m.logger.Info(map[string]any{
		"path":    m.path,
		"domains": len(domains),
	}, "block region written to hosts file")
	return nil
}

// RemoveRegion strips the managed region and writes the remainder back.
// Calling it when no region is present is a successful no-op.
func (m *Manager) RemoveRegion(ctx context.Context) error {
	m.Unlock(ctx)

	raw, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", m.path, err)
	}

	kept, found := stripRegion(string(raw))
	if !found {
		m.logger.Debug(map[string]any{"path": m.path}, "no block region present")
		return nil
	}

	if err := writeAtomic(m.path, kept); err != nil {
		return err
	}

	m.logger.Info(map[string]any{"path": m.path}, "block region removed from hosts file")
	return nil
}

// HasRegion reports whether the managed region is currently present.
func (m *Manager) HasRegion() (bool, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", m.path, err)
	}
	_, found := stripRegion(string(raw))
	return found, nil
}

// RegionDomains reconstructs the blocked domain set from the region's IPv4
// entries. Returns nil when no region is present.
func (m *Manager) RegionDomains() ([]string, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.path, err)
	}

	var domains []string
	in := false
	for _, line := range strings.Split(string(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == MarkerStart:
			in = true
		case trimmed == MarkerEnd:
			in = false
		case in:
			fields := strings.Fields(trimmed)
			if len(fields) == 2 && fields[0] == loopbackV4 {
				domains = append(domains, fields[1])
			}
		}
	}
	return domains, nil
}

// stripRegion removes the marked region from content, matching the exact
// marker lines and discarding everything in between. A start marker with
// no matching end marker drops the rest of the file: a torn region is
// stale content, not user data.
func stripRegion(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	in := false
	found := false
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case MarkerStart:
			in = true
			found = true
		case MarkerEnd:
			in = false
		default:
			if !in {
				out = append(out, line)
			}
		}
	}
	if in && len(out) > 0 && out[len(out)-1] != "" {
		// torn region with no end marker: keep the prefix newline-terminated
		out = append(out, "")
	}
	return strings.Join(out, "\n"), found
}

// writeAtomic writes content to a temp file in the target directory and
// renames it into place, so a crash mid-write never leaves a torn hosts
// file behind.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".hosts-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
