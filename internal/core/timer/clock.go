package timer

import "time"

// Clock supplies wall time to the state machine. Injected so tests can
// drive session lifecycles deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
