package clock

import "github.com/jonboulle/clockwork"

// Clock provides time operations that can be faked in tests.
// Timers and AfterFunc come from clockwork so the orchestrator and autosave
// delays can be driven by a clockwork.FakeClock.
type Clock = clockwork.Clock

// New creates a Clock backed by the system clock
func New() Clock {
	return clockwork.NewRealClock()
}
