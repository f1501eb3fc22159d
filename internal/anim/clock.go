package anim

// Clock is the discrete tick counter of the active clip. It loops.
type Clock struct {
	tick     int
	duration int
}

func NewClock(duration int) *Clock {
	return &Clock{duration: duration}
}

func (c *Clock) Tick() int { return c.tick }

func (c *Clock) Duration() int { return c.duration }

// Advance moves to the next tick, wrapping to 0 on reaching the duration,
// and returns the new tick.
func (c *Clock) Advance() int {
	c.tick++
	if c.tick >= c.duration {
		c.tick = 0
	}
	return c.tick
}

// Reset rewinds to tick 0.
func (c *Clock) Reset() {
	c.tick = 0
}
