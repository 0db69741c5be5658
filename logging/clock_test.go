package logging_test

import "time"

// slowClock advances two seconds per call.
type slowClock struct {
	now time.Time
}

func (c *slowClock) Now() time.Time {
	c.now = c.now.Add(2 * time.Second)
	return c.now
}
