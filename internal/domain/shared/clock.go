package shared

import "time"

// Clock supplies the logical time for billing operations. Every operation
// samples the clock exactly once at entry and uses that value for all time
// arithmetic within the call.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Intended for deterministic
// replayable tests.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}
