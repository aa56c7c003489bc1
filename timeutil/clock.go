package timeutil

import "time"

// Clock is a source of the current instant, injected so build-driver tests
// can pin "now" without sleeping.
type Clock interface {
	Now() time.Time
}

// RealClock is a Clock backed by the system wall clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}
