// Package stabilize provides the constant-delay polling policy handlers use
// while waiting for an asynchronous remote operation to settle.
package stabilize

import "time"

// Constant is a fixed-interval polling policy with an overall deadline.
// Elapsed time is measured against the wall clock across invocations, not
// by blocking waits.
type Constant struct {
	// Delay is the interval between polls.
	Delay time.Duration
	// Timeout is the ceiling on total stabilization time.
	Timeout time.Duration
}

// DelaySeconds returns the poll interval as the callback delay to request
// from the invoking framework.
func (c Constant) DelaySeconds() int64 {
	return int64(c.Delay / time.Second)
}

// Expired reports whether the deadline has passed for a stabilization that
// started at start.
func (c Constant) Expired(start, now time.Time) bool {
	return now.Sub(start) >= c.Timeout
}
