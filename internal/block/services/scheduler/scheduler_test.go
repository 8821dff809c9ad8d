package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pravsels/deepwork/internal/block/domain"
	"github.com/pravsels/deepwork/internal/block/repos/unlockfile"
)

type fakeRunner struct {
	calls  [][]string
	stdins []string
	errs   map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.stdins = append(f.stdins, "")
	return "", f.errs[name]
}

func (f *fakeRunner) RunInput(_ context.Context, stdin string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.stdins = append(f.stdins, stdin)
	return "", f.errs[name]
}

func (f *fakeRunner) callsTo(name string) [][]string {
	var out [][]string
	for _, c := range f.calls {
		if c[0] == name {
			out = append(out, c)
		}
	}
	return out
}

var releaseCmd = []string{"/usr/local/bin/deepwork", "unblock"}

func TestSchedulePrimaryPath(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{}}
	unlocks := unlockfile.New(t.TempDir())
	s := New(run, unlocks, nil)

	at := time.Date(2025, 6, 1, 14, 25, 0, 0, time.Local)
	require.NoError(t, s.Schedule(context.Background(), at, releaseCmd))

	runs := run.callsTo("systemd-run")
	require.Len(t, runs, 1)
	assert.Equal(t, []string{
		"systemd-run",
		"--on-calendar", "2025-06-01 14:25:00",
		"--unit", UnitName,
		"/usr/local/bin/deepwork", "unblock",
	}, runs[0], "must register with an absolute calendar time")

	got, err := s.UnlockTime()
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
}

func TestScheduleReplacesStaleUnit(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{}}
	s := New(run, unlockfile.New(t.TempDir()), nil)

	require.NoError(t, s.Schedule(context.Background(), time.Now().Add(time.Hour), releaseCmd))

	stops := run.callsTo("systemctl")
	require.Len(t, stops, 2)
	assert.Equal(t, []string{"systemctl", "stop", UnitName + ".timer"}, stops[0])
	assert.Equal(t, []string{"systemctl", "reset-failed", UnitName}, stops[1])
}

func TestScheduleFallsBackToAt(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{
		"systemd-run": errors.New("systemd-run not available"),
	}}
	s := New(run, unlockfile.New(t.TempDir()), nil)

	at := time.Date(2025, 6, 1, 16, 45, 0, 0, time.Local)
	require.NoError(t, s.Schedule(context.Background(), at, releaseCmd))

	ats := run.callsTo("at")
	require.Len(t, ats, 1)
	assert.Equal(t, []string{"at", "16:45"}, ats[0])
	assert.Equal(t, "/usr/local/bin/deepwork unblock\n", run.stdins[len(run.stdins)-1],
		"release command must arrive on stdin")
}

func TestScheduleBothMechanismsFail(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{
		"systemd-run": errors.New("no systemd"),
		"at":          errors.New("no atd"),
	}}
	unlocks := unlockfile.New(t.TempDir())
	s := New(run, unlocks, nil)

	at := time.Now().Add(25 * time.Minute)
	err := s.Schedule(context.Background(), at, releaseCmd)
	assert.Error(t, err)

	// degraded mode: unlock time is still persisted for status display
	got, readErr := s.UnlockTime()
	require.NoError(t, readErr)
	assert.True(t, got.Equal(at.Truncate(time.Second)) || got.Sub(at) < time.Second)
}

func TestCancelRemovesSidecarOnly(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{}}
	unlocks := unlockfile.New(t.TempDir())
	s := New(run, unlocks, nil)

	require.NoError(t, unlocks.Write(time.Now()))
	require.NoError(t, s.Cancel(context.Background()))

	_, err := unlocks.Read()
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, run.calls, "cancel must not touch the OS-level job")
}

func TestCancelWithNoSidecarIsNoop(t *testing.T) {
	s := New(&fakeRunner{errs: map[string]error{}}, unlockfile.New(t.TempDir()), nil)
	require.NoError(t, s.Cancel(context.Background()))
}
