package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/player"
)

// Snap is the snapshot type every panel renders.
type Snap = player.Snapshot[catalog.Visual]

const (
	nodeGap         = 2
	timingCapacity  = 120
	timingHeight    = 4
	progressBarSize = 30
)

// DiagramPanel draws the diagram nodes in a row, highlighted ones filled with
// the step accent, and the step's message arrow beneath them.
type DiagramPanel struct {
	diagram *catalog.Diagram
	snap    Snap
}

func NewDiagramPanel(d *catalog.Diagram) *DiagramPanel {
	return &DiagramPanel{diagram: d}
}

func (p *DiagramPanel) Render(s Snap) { p.snap = s }

func (p *DiagramPanel) View(t Theme) string {
	v := p.snap.Step.Visual
	accent := t.AccentColor(v.Accent)

	on := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(t.Background).Background(accent)
	off := lipgloss.NewStyle().Padding(0, 1).Foreground(t.Muted).Background(t.Surface)

	centers := make(map[string]int, len(p.diagram.Nodes))
	var row strings.Builder
	col := 0
	for i, n := range p.diagram.Nodes {
		if i > 0 {
			row.WriteString(strings.Repeat(" ", nodeGap))
			col += nodeGap
		}
		w := lipgloss.Width(n) + 2
		centers[n] = col + w/2
		col += w
		if v.Highlights(n) {
			row.WriteString(on.Render(n))
		} else {
			row.WriteString(off.Render(n))
		}
	}

	out := row.String()
	if v.Arrow == nil {
		return out + "\n\n"
	}

	from, to := centers[v.Arrow.From], centers[v.Arrow.To]
	canvas := NewCanvas(col, 1)
	canvas.DrawArrow(from, to, 0)
	arrowStyle := lipgloss.NewStyle().Foreground(accent)

	label := ""
	if v.Arrow.Label != "" {
		lo, hi := min(from, to), max(from, to)
		pad := lo + (hi-lo-lipgloss.Width(v.Arrow.Label))/2
		label = strings.Repeat(" ", max(pad, 0)) + arrowStyle.Render(v.Arrow.Label)
	}
	return out + "\n" + arrowStyle.Render(canvas.String()) + "\n" + label
}

// StepsPanel lists every step with a marker for the current one.
type StepsPanel struct {
	diagram *catalog.Diagram
	snap    Snap
}

func NewStepsPanel(d *catalog.Diagram) *StepsPanel {
	return &StepsPanel{diagram: d}
}

func (p *StepsPanel) Render(s Snap) { p.snap = s }

func (p *StepsPanel) View(t Theme) string {
	current := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	done := lipgloss.NewStyle().Foreground(t.Success)
	todo := Subtle(t)

	var b strings.Builder
	steps := p.diagram.Sequence.Steps()
	durations := make([]float64, len(steps))
	for i, st := range steps {
		durations[i] = st.Duration().Seconds()
		line := fmt.Sprintf("%d %-28s %4.1fs", i+1, truncate(st.Label, 28), st.Duration().Seconds())
		switch {
		case i == p.snap.Index:
			b.WriteString(current.Render("▸ " + line))
		case i < p.snap.Index || p.snap.Status == player.Completed:
			b.WriteString(done.Render("✓ " + line))
		default:
			b.WriteString(todo.Render("  " + line))
		}
		b.WriteByte('\n')
	}
	b.WriteString("  " + SparklineChart(t, durations, len(durations)))
	return b.String()
}

// DetailPanel shows the label and explanation of the current step.
type DetailPanel struct {
	snap Snap
}

func (p *DetailPanel) Render(s Snap) { p.snap = s }

func (p *DetailPanel) View(t Theme, width int) string {
	st := p.snap.Step
	title := lipgloss.NewStyle().Bold(true).Foreground(t.AccentColor(st.Visual.Accent)).Render(st.Label)
	body := Body(t).Width(max(width, 20)).Render(st.Detail)
	return title + "\n" + body
}

// TablePanel shows a diagram's comparison table, highlighting the rows the
// current step names.
type TablePanel struct {
	table *catalog.Table
	snap  Snap
}

func NewTablePanel(tbl *catalog.Table) *TablePanel {
	return &TablePanel{table: tbl}
}

func (p *TablePanel) Render(s Snap) { p.snap = s }

func (p *TablePanel) View(t Theme) string {
	if p.table == nil {
		return ""
	}

	widths := make([]int, len(p.table.Columns))
	for i, c := range p.table.Columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, r := range p.table.Rows {
		for i, cell := range r.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	format := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c + strings.Repeat(" ", max(widths[i]-lipgloss.Width(c), 0))
		}
		return strings.Join(parts, "  ")
	}

	head := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	active := lipgloss.NewStyle().Bold(true).Foreground(t.AccentColor(p.snap.Step.Visual.Accent))
	idle := Body(t)

	var b strings.Builder
	b.WriteString(head.Render("  " + format(p.table.Columns)))
	for _, r := range p.table.Rows {
		b.WriteByte('\n')
		if p.snap.Step.ID == r.Key || p.snap.Step.Visual.Highlights(r.Key) {
			b.WriteString(active.Render("▸ " + format(r.Cells)))
		} else {
			b.WriteString(idle.Render("  " + format(r.Cells)))
		}
	}
	return b.String()
}

// TimingPanel plots the step index at every transition so far.
type TimingPanel struct {
	total   int
	history []float64
}

func (p *TimingPanel) Render(s Snap) {
	p.total = s.Total
	p.history = append(p.history, float64(s.Index))
	if len(p.history) > timingCapacity {
		p.history = p.history[1:]
	}
}

func (p *TimingPanel) View(t Theme, width int) string {
	data := p.history
	if len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(timingHeight),
		asciigraph.Width(max(width-8, 10)),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(float64(max(p.total-1, 1))),
		asciigraph.Caption("step index per transition"),
	)
	return lipgloss.NewStyle().Foreground(t.Secondary).Render(graph)
}

// ProgressPanel shows position, status and a progress bar.
type ProgressPanel struct {
	snap Snap
}

func (p *ProgressPanel) Render(s Snap) { p.snap = s }

func (p *ProgressPanel) View(t Theme) string {
	s := p.snap
	pct := 0.0
	if s.Total > 0 {
		pct = float64(s.Index+1) / float64(s.Total)
	}
	pos := fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	if s.Last() && s.Status != player.Completed {
		pos += " last step"
	}
	return fmt.Sprintf("%s %s %s",
		StatusBadge(t, s.Status),
		ProgressBar(t, pct, progressBarSize),
		Subtle(t).Render(pos),
	)
}

// StatusBadge renders a player status in its colour.
func StatusBadge(t Theme, s player.Status) string {
	c := t.Muted
	switch s {
	case player.Playing:
		c = t.Success
	case player.Paused:
		c = t.Warning
	case player.Completed:
		c = t.Primary
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(fmt.Sprintf("%-9s", strings.ToUpper(s.String())))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
