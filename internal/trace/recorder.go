// Package trace plays diagrams headlessly on a virtual clock and records
// every snapshot a panel would have seen.
package trace

import (
	"fmt"
	"time"

	"github.com/san-kum/webdevguide/internal/logging"
	"github.com/san-kum/webdevguide/internal/panel"
	"github.com/san-kum/webdevguide/internal/player"
	"github.com/san-kum/webdevguide/internal/schedule"
	"github.com/san-kum/webdevguide/internal/sequence"
)

// Event is one snapshot notification stamped with virtual time.
type Event struct {
	AtMs   int64  `json:"at_ms"`
	Index  int    `json:"index"`
	StepID string `json:"step_id"`
	Status string `json:"status"`
}

// Recorder is a panel that appends an Event per snapshot.
type Recorder[V any] struct {
	clock  *schedule.Clock
	events []Event
}

func NewRecorder[V any](clock *schedule.Clock) *Recorder[V] {
	return &Recorder[V]{clock: clock}
}

func (r *Recorder[V]) Render(s player.Snapshot[V]) {
	r.events = append(r.events, Event{
		AtMs:   r.clock.Elapsed().Milliseconds(),
		Index:  s.Index,
		StepID: s.Step.ID,
		Status: s.Status.String(),
	})
}

func (r *Recorder[V]) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

type Options struct {
	Loop  bool
	Speed float64
	// Until stops the run: later commands are dropped and the clock never
	// passes it. Zero means the last command plus one full pass
	// of the sequence, which is enough for a non-looping run to finish.
	Until time.Duration
}

// Run plays seq on a fresh virtual clock, applying cmds at their times. A
// command and a step deadline at the same instant see the step fire first.
func Run[V any](seq *sequence.Sequence[V], cmds []Command, opts Options) ([]Event, error) {
	clock := schedule.NewClock()
	p, err := player.New(seq, player.Config{
		Loop:      opts.Loop,
		Scheduler: schedule.Scaled(clock.NewTimer(), opts.Speed),
	})
	if err != nil {
		return nil, err
	}
	defer p.Close()

	rec := NewRecorder[V](clock)
	detach := panel.Attach[player.Snapshot[V]](p, rec)
	defer detach()

	sorted := make([]Command, len(cmds))
	copy(sorted, cmds)
	sortCommands(sorted)

	for i, c := range sorted {
		at := time.Duration(c.AtMs) * time.Millisecond
		if opts.Until > 0 && at > opts.Until {
			break
		}
		if at > clock.Elapsed() {
			clock.Advance(at - clock.Elapsed())
		}
		if err := apply(p, c); err != nil {
			return rec.Events(), fmt.Errorf("command %d (%s): %w", i+1, c, err)
		}
	}

	until := opts.Until
	if until <= 0 {
		total := seq.Total()
		if opts.Speed > 0 {
			total = time.Duration(float64(total) / opts.Speed)
		}
		until = clock.Elapsed() + total + sequence.MinDuration
	}
	clock.RunUntilIdle(until)

	events := rec.Events()
	logging.Logger().Debug("trace finished", "events", len(events), "elapsed", clock.Elapsed())
	return events, nil
}

func apply[V any](p *player.Player[V], c Command) error {
	switch c.Action {
	case ActionPlay:
		p.Play()
	case ActionPause:
		p.Pause()
	case ActionForward:
		p.StepForward()
	case ActionBack:
		p.StepBackward()
	case ActionReset:
		p.Reset()
	case ActionSeek:
		return p.Seek(c.Index)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Action)
	}
	return nil
}

// IndexSeries samples the step index every stepMs from the first to the
// last event, for plotting.
func IndexSeries(events []Event, stepMs int64) []float64 {
	if len(events) == 0 || stepMs <= 0 {
		return nil
	}
	end := events[len(events)-1].AtMs
	series := make([]float64, 0, end/stepMs+1)
	j := 0
	for t := int64(0); t <= end; t += stepMs {
		for j+1 < len(events) && events[j+1].AtMs <= t {
			j++
		}
		series = append(series, float64(events[j].Index))
	}
	return series
}
