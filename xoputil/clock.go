package xoputil

import (
	"sync"
	"time"
)

// Clock supplies timestamps.  time.Now is the production clock.
type Clock func() time.Time

// ManualClock is a Clock that only moves when told to.  It is
// safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *ManualClock) Clock() Clock { return c.Now }
