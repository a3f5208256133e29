package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/webdevguide/internal/logging"
)

// Loop is a single cooperative event loop. Functions posted to it run one at
// a time on the goroutine that calls Run.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	doneOnce sync.Once
}

// NewLoop returns a loop whose queue holds up to buffer pending functions.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It is safe from any goroutine and drops fn once Run returned.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run executes posted functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// C exposes the queue to callers that drain it from their own event loop
// instead of calling Run. Every received function must be called there.
func (l *Loop) C() <-chan func() { return l.queue }

// Done is closed once the loop stopped.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Stop makes later Posts drop their function. It is idempotent.
func (l *Loop) Stop() {
	l.doneOnce.Do(func() { close(l.done) })
}

// NewTimer returns a real-time timer whose callbacks run on l.
func (l *Loop) NewTimer() *Timer {
	return NewTimer(l.Post)
}

// Timer is a real-time Scheduler. The callback is posted back to the owning
// loop; a generation counter drops fires from timers that were disarmed or
// re-armed after they were scheduled. Arm, Disarm and Pending must be called
// from the loop goroutine.
type Timer struct {
	post    func(func())
	gen     uint64
	timer   *time.Timer
	pending bool
}

// NewTimer returns a timer that delivers callbacks through post.
func NewTimer(post func(func())) *Timer {
	return &Timer{post: post}
}

func (t *Timer) Arm(d time.Duration, fn func()) {
	t.stop()
	t.gen++
	t.pending = true
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.post(func() {
			if gen != t.gen || !t.pending {
				logging.Logger().Debug("dropped stale timer fire", "gen", gen, "current", t.gen)
				return
			}
			t.pending = false
			fn()
		})
	})
}

func (t *Timer) Disarm() {
	t.stop()
	t.gen++
	t.pending = false
}

func (t *Timer) Pending() bool { return t.pending }

func (t *Timer) stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
