package mocks

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/draftboard/internal/dependencies/clock"
)

// Ensure FakeClock implements Clock
var _ clock.Clock = (*clockwork.FakeClock)(nil)

// NewMockClock creates a fake clock set to the given time.
// Advance it to fire timers created by the code under test.
func NewMockClock(t time.Time) *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(t)
}
