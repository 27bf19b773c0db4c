// Package clock provides time utilities for the application
package clock

import "time"

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Fixed implements Clock with a controllable time, for tests.
type Fixed struct {
	current time.Time
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

// Now returns the fixed time.
func (c *Fixed) Now() time.Time {
	return c.current
}

// Advance moves the fixed clock forward by d.
func (c *Fixed) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
