// Package clock lets timer-driven code run against wall time in production
// and against a manually advanced clock in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time

	// After is time.After.
	After(d time.Duration) <-chan time.Time

	// AfterFunc calls f on its own goroutine (Real) or inside Advance (Fake) once d elapses.
	AfterFunc(d time.Duration, f func()) *Timer

	Sleep(d time.Duration)
}

// Timer is returned by AfterFunc.
type Timer struct {
	stop func() bool
}

// Stop cancels the pending call. It reports false when the timer already fired or was stopped.
// A nil Timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	return t.stop()
}
