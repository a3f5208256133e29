package schedule

import "time"

// Clock is a virtual clock. Time only moves when Advance or RunUntilIdle is
// called, and due timers fire in deadline order, ties broken by arm order.
type Clock struct {
	now    time.Duration
	seq    uint64
	timers []*ClockTimer
}

// NewClock returns a clock at elapsed time zero.
func NewClock() *Clock {
	return &Clock{}
}

// ClockTimer is a Scheduler bound to a Clock.
type ClockTimer struct {
	clock    *Clock
	armed    bool
	deadline time.Duration
	order    uint64
	fn       func()
}

// NewTimer returns a new timer driven by c.
func (c *Clock) NewTimer() *ClockTimer {
	t := &ClockTimer{clock: c}
	c.timers = append(c.timers, t)
	return t
}

func (t *ClockTimer) Arm(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	t.clock.seq++
	t.armed = true
	t.deadline = t.clock.now + d
	t.order = t.clock.seq
	t.fn = fn
}

func (t *ClockTimer) Disarm() {
	t.armed = false
	t.fn = nil
}

func (t *ClockTimer) Pending() bool { return t.armed }

// Deadline returns the elapsed time at which the pending timer fires.
func (t *ClockTimer) Deadline() (time.Duration, bool) {
	return t.deadline, t.armed
}

// Elapsed returns the virtual time since the clock was created.
func (c *Clock) Elapsed() time.Duration { return c.now }

// Pending returns the number of armed timers across the clock.
func (c *Clock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if t.armed {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every timer that comes due on
// the way. Timers armed by a callback fire too if they fall inside the window.
func (c *Clock) Advance(d time.Duration) {
	target := c.now + d
	for {
		t := c.next(target)
		if t == nil {
			break
		}
		c.fire(t)
	}
	c.now = target
}

// RunUntilIdle fires timers in order until none is pending or the next one
// would fire after limit. The clock stops at the last fired deadline when it
// goes idle, or at limit otherwise.
func (c *Clock) RunUntilIdle(limit time.Duration) {
	for c.Pending() > 0 {
		t := c.next(limit)
		if t == nil {
			if limit > c.now {
				c.now = limit
			}
			return
		}
		c.fire(t)
	}
}

func (c *Clock) fire(t *ClockTimer) {
	c.now = t.deadline
	fn := t.fn
	t.armed = false
	t.fn = nil
	if fn != nil {
		fn()
	}
}

func (c *Clock) next(limit time.Duration) *ClockTimer {
	var best *ClockTimer
	for _, t := range c.timers {
		if !t.armed || t.deadline > limit {
			continue
		}
		if best == nil || t.deadline < best.deadline || (t.deadline == best.deadline && t.order < best.order) {
			best = t
		}
	}
	return best
}
