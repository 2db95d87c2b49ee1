// Package clock wraps github.com/benbjohnson/clock so the Simulation
// Engine's wall-clock-driven tick loop can run against a real clock in
// production and a fake, manually-advanced clock in tests — the pause
// invariance property law (spec §8) is impractical to verify against a
// real sleeping clock.
package clock

import "github.com/benbjohnson/clock"

// Clock is the subset of benbjohnson/clock.Clock the production core
// needs: the current instant and a ticker for the driver loop.
type Clock = clock.Clock

// New returns the real wall clock.
func New() Clock {
	return clock.New()
}

// NewMock returns a fake clock starting at the Unix epoch, advanced only
// by explicit calls to Add/Set — used by the Writer and driver tests.
func NewMock() *clock.Mock {
	return clock.NewMock()
}
