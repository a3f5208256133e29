package player

import (
	"log/slog"

	"github.com/san-kum/webdevguide/internal/logging"
	"github.com/san-kum/webdevguide/internal/panel"
	"github.com/san-kum/webdevguide/internal/schedule"
	"github.com/san-kum/webdevguide/internal/sequence"
)

// Config configures a Player at construction.
type Config struct {
	// Loop wraps from the last step back to the first instead of completing.
	Loop bool
	// Scheduler drives auto-advance. A nil Scheduler gets a private virtual
	// clock that never moves, so the player only advances manually.
	Scheduler schedule.Scheduler
	// Logger defaults to the shared logger.
	Logger *slog.Logger
}

type op struct {
	name string
	fn   func()
}

// Player is the stepwise playback state machine for one diagram.
type Player[V any] struct {
	seq    *sequence.Sequence[V]
	sched  schedule.Scheduler
	loop   bool
	index  int
	status Status
	hub    panel.Hub[Snapshot[V]]
	log    *slog.Logger

	busy     bool
	deferred []op
	closed   bool
}

// New binds a player to seq. An empty sequence fails with
// sequence.ErrInvalidSequence.
func New[V any](seq *sequence.Sequence[V], cfg Config) (*Player[V], error) {
	if seq.Len() == 0 {
		return nil, &sequence.ValidationError{Index: -1, Reason: "no steps"}
	}

	sched := cfg.Scheduler
	if sched == nil {
		sched = schedule.NewClock().NewTimer()
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Logger()
	}

	return &Player[V]{
		seq:   seq,
		sched: sched,
		loop:  cfg.Loop,
		log:   log,
	}, nil
}

// FromSteps validates steps and builds a player over them.
func FromSteps[V any](steps []sequence.Step[V], cfg Config) (*Player[V], error) {
	seq, err := sequence.New(steps)
	if err != nil {
		return nil, err
	}
	return New(seq, cfg)
}

// Play starts or resumes playback. From completed it restarts at the first
// step. It is a no-op while already playing.
func (p *Player[V]) Play() {
	p.apply("play", func() {
		switch p.status {
		case Playing:
			return
		case Completed:
			p.index = 0
		}
		p.status = Playing
		p.arm()
	})
}

// Pause stops auto-advance and keeps the current step. Only valid while playing.
func (p *Player[V]) Pause() {
	p.apply("pause", func() {
		if p.status != Playing {
			return
		}
		p.sched.Disarm()
		p.status = Paused
	})
}

// StepForward moves to the next step. It is a no-op while idle and at the
// last step unless looping. While playing the new step gets its full duration.
func (p *Player[V]) StepForward() {
	p.apply("step-forward", func() {
		if p.status == Idle {
			return
		}
		next := p.index + 1
		if next >= p.seq.Len() {
			if !p.loop {
				return
			}
			next = 0
		}
		p.moveTo(next)
	})
}

// StepBackward moves to the previous step, mirroring StepForward.
func (p *Player[V]) StepBackward() {
	p.apply("step-backward", func() {
		if p.status == Idle {
			return
		}
		prev := p.index - 1
		if prev < 0 {
			if !p.loop {
				return
			}
			prev = p.seq.Len() - 1
		}
		p.moveTo(prev)
	})
}

// Seek jumps to index in any status. An index outside the sequence returns
// ErrOutOfRange and leaves the player untouched.
func (p *Player[V]) Seek(index int) error {
	if index < 0 || index >= p.seq.Len() {
		return &RangeError{Index: index, Len: p.seq.Len()}
	}
	p.apply("seek", func() {
		p.moveTo(index)
	})
	return nil
}

// Reset returns to the first step in idle and cancels auto-advance.
func (p *Player[V]) Reset() {
	p.apply("reset", func() {
		p.sched.Disarm()
		p.index = 0
		p.status = Idle
	})
}

// Snapshot returns the current state.
func (p *Player[V]) Snapshot() Snapshot[V] {
	return Snapshot[V]{
		Index:  p.index,
		Total:  p.seq.Len(),
		Status: p.status,
		Step:   p.seq.At(p.index),
	}
}

// Subscribe registers a listener for every state change.
func (p *Player[V]) Subscribe(l panel.Listener[Snapshot[V]]) *panel.Subscription[Snapshot[V]] {
	s := p.hub.Subscribe(l)
	if p.closed {
		s.Unsubscribe()
	}
	return s
}

// Close tears the player down: auto-advance is cancelled, every listener is
// unsubscribed and later operations are ignored. It is idempotent.
func (p *Player[V]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.sched.Disarm()
	p.hub.Close()
	p.deferred = nil
	p.log.Debug("player closed", "index", p.index, "status", p.status)
}

// Len returns the number of steps.
func (p *Player[V]) Len() int { return p.seq.Len() }

// Loop reports whether the player wraps around.
func (p *Player[V]) Loop() bool { return p.loop }

// Scheduled reports whether an auto-advance timer is pending.
func (p *Player[V]) Scheduled() bool { return p.sched.Pending() }

// advance is the scheduler callback for the current step's timer.
func (p *Player[V]) advance() {
	p.apply("advance", func() {
		if p.status != Playing {
			return
		}
		if p.index == p.seq.Len()-1 {
			if p.loop {
				p.index = 0
				p.arm()
				return
			}
			p.sched.Disarm()
			p.status = Completed
			return
		}
		p.index++
		p.arm()
	})
}

func (p *Player[V]) moveTo(index int) {
	p.index = index
	if p.status == Playing {
		p.arm()
	}
}

func (p *Player[V]) arm() {
	p.sched.Arm(p.seq.At(p.index).Duration(), p.advance)
}

// apply runs fn as one transition and notifies listeners when the index or
// status changed. Calls made while a transition or notification is in
// progress are queued and run afterwards in order.
func (p *Player[V]) apply(name string, fn func()) {
	if p.closed {
		return
	}
	if p.busy {
		p.deferred = append(p.deferred, op{name: name, fn: fn})
		return
	}

	p.busy = true
	defer func() { p.busy = false }()

	p.run(op{name: name, fn: fn})
	for len(p.deferred) > 0 && !p.closed {
		next := p.deferred[0]
		p.deferred = p.deferred[1:]
		p.run(next)
	}
}

func (p *Player[V]) run(o op) {
	fromIndex, fromStatus := p.index, p.status
	o.fn()
	if p.index == fromIndex && p.status == fromStatus {
		return
	}

	p.log.Debug("player transition",
		"op", o.name,
		"from", fromStatus,
		"to", p.status,
		"index", p.index,
		"step", p.seq.At(p.index).ID,
	)
	p.hub.Publish(p.Snapshot())
}
