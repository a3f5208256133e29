package schedule

import (
	"testing"
	"time"
)

func TestClockFiresInDeadlineOrder(t *testing.T) {
	c := NewClock()
	a, b := c.NewTimer(), c.NewTimer()

	var fired []string
	a.Arm(300*time.Millisecond, func() { fired = append(fired, "a") })
	b.Arm(100*time.Millisecond, func() { fired = append(fired, "b") })

	c.Advance(200 * time.Millisecond)
	if len(fired) != 1 || fired[0] != "b" {
		t.Fatalf("after 200ms fired %v, want [b]", fired)
	}
	if c.Elapsed() != 200*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 200ms", c.Elapsed())
	}

	c.Advance(100 * time.Millisecond)
	if len(fired) != 2 || fired[1] != "a" {
		t.Fatalf("after 300ms fired %v, want [b a]", fired)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestClockTimerLastArmWins(t *testing.T) {
	c := NewClock()
	tm := c.NewTimer()

	count := map[string]int{}
	tm.Arm(100*time.Millisecond, func() { count["first"]++ })
	tm.Arm(50*time.Millisecond, func() { count["second"]++ })

	if c.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", c.Pending())
	}

	c.Advance(time.Second)
	if count["first"] != 0 || count["second"] != 1 {
		t.Errorf("fired %v, want only second once", count)
	}
}

func TestClockTimerDisarm(t *testing.T) {
	c := NewClock()
	tm := c.NewTimer()

	tm.Disarm()
	if tm.Pending() {
		t.Error("Disarm on idle timer should leave it idle")
	}

	fired := false
	tm.Arm(10*time.Millisecond, func() { fired = true })
	tm.Disarm()
	tm.Disarm()
	c.Advance(time.Second)
	if fired {
		t.Error("disarmed timer fired")
	}
}

func TestClockRearmFromCallback(t *testing.T) {
	c := NewClock()
	tm := c.NewTimer()

	var at []time.Duration
	var tick func()
	tick = func() {
		at = append(at, c.Elapsed())
		if len(at) < 3 {
			tm.Arm(100*time.Millisecond, tick)
		}
	}
	tm.Arm(100*time.Millisecond, tick)

	c.Advance(time.Second)
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(at) != len(want) {
		t.Fatalf("fired at %v, want %v", at, want)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Errorf("fire %d at %v, want %v", i, at[i], want[i])
		}
	}
}

func TestClockRunUntilIdle(t *testing.T) {
	c := NewClock()
	tm := c.NewTimer()

	n := 0
	var tick func()
	tick = func() {
		n++
		tm.Arm(100*time.Millisecond, tick)
	}
	tm.Arm(100*time.Millisecond, tick)

	c.RunUntilIdle(450 * time.Millisecond)
	if n != 4 {
		t.Errorf("fired %d times, want 4", n)
	}
	if c.Elapsed() != 450*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 450ms", c.Elapsed())
	}

	tm.Disarm()
	c.RunUntilIdle(time.Hour)
	if c.Elapsed() != 450*time.Millisecond {
		t.Errorf("idle clock moved to %v", c.Elapsed())
	}
}

func TestScaled(t *testing.T) {
	c := NewClock()
	tm := c.NewTimer()

	fast := Scaled(tm, 2)
	fast.Arm(400*time.Millisecond, func() {})
	if d, ok := tm.Deadline(); !ok || d != 200*time.Millisecond {
		t.Errorf("deadline = %v, %v; want 200ms", d, ok)
	}
	if !fast.Pending() {
		t.Error("scaled scheduler should report the inner pending timer")
	}

	if Scaled(tm, 1) != Scheduler(tm) {
		t.Error("speed 1 should return the scheduler unchanged")
	}
	if Scaled(tm, 0) != Scheduler(tm) {
		t.Error("speed 0 should return the scheduler unchanged")
	}
}
