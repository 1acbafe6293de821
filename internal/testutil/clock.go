package testutil

import (
	"sync"
	"time"
)

// DefaultStart is the first instant returned by a clock built with
// NewDeterministicClock(time.Time{}, 0).
var DefaultStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// DeterministicClock is a thread-safe fake wall clock for tests.
//
// Each call to Now returns the previous value plus a fixed step, so records
// created in sequence get distinct, strictly increasing timestamps and tests
// produce identical output on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewDeterministicClock creates a clock whose first Now() returns start.
// A zero start means DefaultStart; a zero step means one second.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	if start.IsZero() {
		start = DefaultStart
	}
	if step <= 0 {
		step = time.Second
	}
	return &DeterministicClock{start: start.UTC(), step: step}
}

// Now returns the next instant and advances the clock.
// It has the signature of time.Now so it can be injected directly.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock. After Reset(), the next Now() returns start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
