package readprof

import "time"

// Clock is the time source used to bracket sampled reads.
//
// Implementations must be non-decreasing within a process. time.Now values
// carry a monotonic reading, so [SystemClock] is immune to wall-clock steps.
type Clock interface {
	Now() time.Time
}

// SystemClock implements [Clock] using time.Now.
type SystemClock struct{}

// Now returns the current time with its monotonic reading.
func (SystemClock) Now() time.Time { return time.Now() }
