package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLastOnEmptyJournal(t *testing.T) {
	s := openTestStore(t)
	_, present, err := s.Last()
	require.NoError(t, err)
	assert.False(t, present)
}

func TestAppendAndLast(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(Event{
		At:       base,
		Action:   "block",
		Domains:  []string{"reddit.com", "www.reddit.com"},
		UnlockAt: base.Add(25 * time.Minute),
	}))
	require.NoError(t, s.Append(Event{
		At:     base.Add(25 * time.Minute),
		Action: "unblock",
	}))

	ev, present, err := s.Last()
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, "unblock", ev.Action)
	assert.True(t, ev.At.Equal(base.Add(25*time.Minute)))

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEventsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Append(Event{At: time.Now(), Action: "block", Domains: []string{"x.com"}}))
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	ev, present, err := s2.Last()
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, []string{"x.com"}, ev.Domains)
}
