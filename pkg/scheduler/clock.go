package scheduler

import "time"

// Clock abstracts the timer used between passes so tests can drive it
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// RealClock waits on the wall clock
type RealClock struct{}

// After waits for the duration to elapse and then sends the current time
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
