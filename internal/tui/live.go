// Package tui streams a diagram to a plain terminal, one line per step
// change, for shells and logs where a full-screen app does not fit.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/logging"
	"github.com/san-kum/webdevguide/internal/panel"
	"github.com/san-kum/webdevguide/internal/player"
	"github.com/san-kum/webdevguide/internal/schedule"
)

type Snap = player.Snapshot[catalog.Visual]

var accents = map[string]string{
	"blue":   "#3b82f6",
	"green":  "#22c55e",
	"orange": "#f97316",
	"purple": "#a855f7",
	"cyan":   "#06b6d4",
	"pink":   "#ec4899",
	"yellow": "#eab308",
}

const (
	mutedColor = "#475569"
	textColor  = "#e2e8f0"
)

// LiveRenderer is a panel that writes one coloured line per snapshot.
type LiveRenderer struct {
	out     *termenv.Output
	elapsed func() time.Duration
	details bool
}

// NewLiveRenderer writes to w using the colour profile w supports. elapsed
// stamps each line; nil stamps with wall time since construction.
func NewLiveRenderer(w io.Writer, elapsed func() time.Duration, opts ...termenv.OutputOption) *LiveRenderer {
	if elapsed == nil {
		start := time.Now()
		elapsed = func() time.Duration { return time.Since(start) }
	}
	return &LiveRenderer{out: termenv.NewOutput(w, opts...), elapsed: elapsed, details: true}
}

// Compact drops the step detail from each line.
func (r *LiveRenderer) Compact() *LiveRenderer {
	r.details = false
	return r
}

// Header writes the topic and diagram title.
func (r *LiveRenderer) Header(t *catalog.Topic, d *catalog.Diagram) {
	title := r.out.String(fmt.Sprintf("%s %s › %s", t.Icon, t.Title, d.Title)).Bold()
	if c, ok := accents[t.Color]; ok {
		title = title.Foreground(r.out.Color(c))
	}
	fmt.Fprintln(r.out, title)
	if d.Summary != "" {
		fmt.Fprintln(r.out, r.out.String(d.Summary).Foreground(r.out.Color(mutedColor)))
	}
}

func (r *LiveRenderer) Render(s Snap) {
	stamp := r.out.String(fmt.Sprintf("[%7.2fs]", r.elapsed().Seconds())).Foreground(r.out.Color(mutedColor))
	pos := fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	status := r.out.String(fmt.Sprintf("%-9s", strings.ToUpper(s.Status.String()))).Bold()

	label := r.out.String(s.Step.Label).Bold()
	if c, ok := accents[s.Step.Visual.Accent]; ok {
		label = label.Foreground(r.out.Color(c))
	}

	line := fmt.Sprintf("%s %5s %s %s", stamp, pos, status, label)
	if a := s.Step.Visual.Arrow; a != nil {
		line += fmt.Sprintf("  %s → %s", a.From, a.To)
		if a.Label != "" {
			line += ": " + a.Label
		}
	}
	if r.details && s.Step.Detail != "" {
		line += "\n" + strings.Repeat(" ", 12) + r.out.String(s.Step.Detail).Foreground(r.out.Color(textColor)).String()
	}
	fmt.Fprintln(r.out, line)
}

func (r *LiveRenderer) Start() { r.out.HideCursor() }
func (r *LiveRenderer) Stop()  { r.out.ShowCursor() }

type WatchOptions struct {
	Loop  bool
	Speed float64
	// Compact drops step details from the output.
	Compact bool
}

// Watch plays d in real time, streaming every step change to w, until the
// player completes or ctx is done. Looping diagrams run until ctx is done.
func Watch(ctx context.Context, t *catalog.Topic, d *catalog.Diagram, opts WatchOptions, w io.Writer) error {
	loop := schedule.NewLoop(0)
	p, err := player.New(d.Sequence, player.Config{
		Loop:      opts.Loop || d.Loop,
		Scheduler: schedule.Scaled(loop.NewTimer(), opts.Speed),
	})
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := NewLiveRenderer(w, nil)
	if opts.Compact {
		r.Compact()
	}
	r.Header(t, d)

	done := panel.PanelFunc[Snap](func(s Snap) {
		if s.Status == player.Completed {
			cancel()
		}
	})
	detach := panel.Attach[Snap](p, r, done)
	defer detach()

	logging.Logger().Info("watching", "topic", t.Slug, "diagram", d.Name, "loop", p.Loop(), "speed", opts.Speed)
	loop.Post(p.Play)

	r.Start()
	defer r.Stop()
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
