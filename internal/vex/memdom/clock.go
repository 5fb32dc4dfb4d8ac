package memdom

import "time"

// Clock is a manual frame clock: frames fire only when the test (or a
// driver loop) calls Tick, which mimics one repaint. Callbacks never
// overlap, matching the host contract.
type Clock struct {
	now     time.Time
	pending []func(time.Time)

	// AutoAdvance, when set, moves the clock forward on every Now call,
	// simulating work units that cost real time within a frame.
	AutoAdvance time.Duration
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.now = c.now.Add(c.AutoAdvance)
	return c.now
}

func (c *Clock) RequestFrame(fn func(now time.Time)) {
	c.pending = append(c.pending, fn)
}

// Tick advances the clock by d and runs every callback that was pending
// when the frame started. Callbacks registered during the frame wait for
// the next Tick.
func (c *Clock) Tick(d time.Duration) {
	c.now = c.now.Add(d)
	fns := c.pending
	c.pending = nil
	for _, fn := range fns {
		fn(c.now)
	}
}

// Idle reports whether any frame callback is pending.
func (c *Clock) Idle() bool { return len(c.pending) == 0 }

// Run ticks until idle or limit frames have run, and returns the number
// of frames driven. A limit guards tests against a pipeline that never
// drains.
func (c *Clock) Run(d time.Duration, limit int) int {
	frames := 0
	for !c.Idle() && frames < limit {
		c.Tick(d)
		frames++
	}
	return frames
}
