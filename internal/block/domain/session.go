package domain

import "time"

// Session is the logical state of one block, reconstructed from two
// independent signals: the marked region in the hosts file (Active) and
// the unlock-time side-car file (UnlockAt). Either may be missing after a
// partial failure; an absent side-car degrades to "unlock time unknown",
// never to "inactive".
type Session struct {
	Domains     []string  // canonical, post-expansion
	UnlockAt    time.Time // zero when unknown
	Active      bool      // marked region present in the hosts file
	Locked      bool      // immutable attribute currently set
	UnlockKnown bool      // side-car was present and parseable
}

// Remaining returns the time left until release, or zero when the session
// is inactive, the unlock time is unknown, or the deadline has passed.
func (s Session) Remaining(now time.Time) time.Duration {
	if !s.Active || !s.UnlockKnown {
		return 0
	}
	if d := s.UnlockAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
