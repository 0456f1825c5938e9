package clock

import "time"

// Clock abstracts the current time so token lifetimes can be computed
// deterministically in tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
