// Package unlockfile persists the scheduled release time as a side-car
// file: a single RFC 3339 timestamp with no trailing structure. Status
// reporting reads it; the scheduler writes it; unblock removes it.
package unlockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pravsels/deepwork/internal/block/domain"
)

// FileName is the side-car file name under the state directory.
const FileName = "unlock_at"

// Store reads and writes the unlock-time side-car.
type Store struct {
	path string
}

// New creates a Store rooted at the given state directory.
func New(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, FileName)}
}

// Path returns the side-car file path.
func (s *Store) Path() string {
	return s.path
}

// Write persists the unlock time, creating the state directory if needed.
func (s *Store) Write(at time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(at.Format(time.RFC3339)), 0o644); err != nil {
		return fmt.Errorf("writing unlock time: %w", err)
	}
	return nil
}

// Read returns the persisted unlock time. A missing side-car yields a
// NotFoundError so callers can distinguish "unknown" from a parse failure.
func (s *Store) Read() (time.Time, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return time.Time{}, &domain.NotFoundError{Path: s.path}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading unlock time: %w", err)
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing unlock time from %s: %w", s.path, err)
	}
	return at, nil
}

// Remove deletes the side-car. Absence is a successful no-op.
func (s *Store) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing unlock time: %w", err)
	}
	return nil
}
