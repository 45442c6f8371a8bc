package clock

import (
	"sync"
	"time"
)

// Source supplies the reading of "now" a snapshot is taken at.
type Source interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ScrubClock is a manually positioned now. After Set it keeps advancing at
// wall-clock speed from the new position.
type ScrubClock struct {
	mu       sync.Mutex
	position time.Time
	setAt    time.Time
	wall     func() time.Time
}

// NewScrubClock starts a scrub clock at position. wall defaults to time.Now.
func NewScrubClock(position time.Time, wall func() time.Time) *ScrubClock {
	if wall == nil {
		wall = time.Now
	}
	return &ScrubClock{
		position: position,
		setAt:    wall(),
		wall:     wall,
	}
}

// Now returns the position advanced by the wall time since the last Set.
func (c *ScrubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position.Add(c.wall().Sub(c.setAt))
}

// Set moves the clock to position.
func (c *ScrubClock) Set(position time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.setAt = c.wall()
}

// Shift moves the clock by d relative to its current reading.
func (c *ScrubClock) Shift(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.wall()
	c.position = c.position.Add(now.Sub(c.setAt)).Add(d)
	c.setAt = now
}
