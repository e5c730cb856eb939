package provision

import "time"

// Clock supplies the current time and the inter-packet sleep.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep calls time.Sleep
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
