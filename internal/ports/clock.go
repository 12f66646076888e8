package ports

import "time"

// Clock supplies the current time to services
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

// Now implements Clock.Now
func (SystemClock) Now() time.Time { return time.Now().UTC() }
