package wills

import "time"

// Clock is the authoritative time source for lifecycle decisions. Every
// operation reads it exactly once, so the multiple timestamp comparisons
// within one call cannot drift against each other.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}
