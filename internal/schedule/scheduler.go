package schedule

import "time"

// Scheduler owns at most one pending timer.
type Scheduler interface {
	// Arm schedules fn after d, replacing any pending timer.
	Arm(d time.Duration, fn func())
	// Disarm cancels the pending timer. It is a no-op when nothing is pending.
	Disarm()
	// Pending reports whether a timer is armed and has not fired.
	Pending() bool
}

type scaled struct {
	Scheduler
	speed float64
}

// Scaled divides every armed duration by speed. A speed of 1 or less than or
// equal to zero returns s unchanged.
func Scaled(s Scheduler, speed float64) Scheduler {
	if speed <= 0 || speed == 1 {
		return s
	}
	return &scaled{Scheduler: s, speed: speed}
}

func (s *scaled) Arm(d time.Duration, fn func()) {
	s.Scheduler.Arm(time.Duration(float64(d)/s.speed), fn)
}
