package systemd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls [][]string
	errs  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return "", f.errs[name]
}

func (f *fakeRunner) RunInput(ctx context.Context, _ string, name string, args ...string) (string, error) {
	return f.Run(ctx, name, args...)
}

func TestStartDetachedStopsPriorInstanceFirst(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{}}
	s := New(run, nil)

	err := s.StartDetached(context.Background(), "deepwork-blockpage", "DeepWork Block Page Server",
		[]string{"/usr/local/bin/deepwork", "serve"})
	require.NoError(t, err)

	require.Len(t, run.calls, 2)
	assert.Equal(t, []string{"systemctl", "stop", "deepwork-blockpage"}, run.calls[0])
	assert.Equal(t, []string{
		"systemd-run",
		"--unit", "deepwork-blockpage",
		"--description", "DeepWork Block Page Server",
		"/usr/local/bin/deepwork", "serve",
	}, run.calls[1])
}

func TestStartDetachedSurvivesAbsentPriorInstance(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{
		"systemctl": errors.New("unit not loaded"),
	}}
	s := New(run, nil)

	err := s.StartDetached(context.Background(), "deepwork-blockpage", "desc", []string{"cmd"})
	require.NoError(t, err, "a missing prior instance must not block the start")
	assert.Len(t, run.calls, 2)
}

func TestStartDetachedPropagatesLaunchFailure(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{
		"systemd-run": errors.New("systemd-run not found"),
	}}
	s := New(run, nil)

	err := s.StartDetached(context.Background(), "u", "d", []string{"cmd"})
	assert.Error(t, err)
}

func TestStop(t *testing.T) {
	run := &fakeRunner{errs: map[string]error{}}
	s := New(run, nil)

	require.NoError(t, s.Stop(context.Background(), "deepwork-blockpage"))
	require.Len(t, run.calls, 1)
	assert.Equal(t, []string{"systemctl", "stop", "deepwork-blockpage"}, run.calls[0])
}
