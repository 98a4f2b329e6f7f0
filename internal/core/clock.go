package core

import "time"

// TickClock reports simulated time as a whole number of ticks at a fixed
// rate. Cooldowns and regeneration read it instead of the wall clock so
// tests can step time explicitly.
type TickClock struct {
	ticks int64
	rate  int64
}

// NewTickClock creates a clock that advances 1/tickRate seconds per Advance.
// A non-positive tick rate falls back to 60.
func NewTickClock(tickRate int) *TickClock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &TickClock{rate: int64(tickRate)}
}

// Advance moves the clock forward by one tick.
func (c *TickClock) Advance() {
	c.ticks++
}

// Now returns the simulated time since the clock was created. It is derived
// from the tick count, so n seconds always take exactly n*tickRate ticks.
func (c *TickClock) Now() time.Duration {
	return time.Duration(c.ticks * int64(time.Second) / c.rate)
}
