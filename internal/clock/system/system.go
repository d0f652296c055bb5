// Package system provides the wall clock used to stamp and age catalog loads.
package system

import "time"

// Clock reads the host's wall clock. Times are reported in UTC.
type Clock struct{}

// New returns the wall clock.
func New() Clock {
	return Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// Since returns the time elapsed since t, never negative.
func (c Clock) Since(t time.Time) time.Duration {
	if d := c.Now().Sub(t); d > 0 {
		return d
	}
	return 0
}
