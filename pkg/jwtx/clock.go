package jwtx

import (
	"sync"
	"time"
)

// Clock is the time source for issuing and verifying tokens.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant until it is moved. Tests use it
// to pin expiry boundaries.
type FixedClock struct {
	mu sync.RWMutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
