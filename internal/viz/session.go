package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/panel"
	"github.com/san-kum/webdevguide/internal/player"
	"github.com/san-kum/webdevguide/internal/schedule"
)

// Session is one open diagram: a player and the panels attached to it.
type Session struct {
	Topic   *catalog.Topic
	Diagram *catalog.Diagram
	Player  *player.Player[catalog.Visual]

	diagram  *DiagramPanel
	steps    *StepsPanel
	detail   *DetailPanel
	table    *TablePanel
	timing   *TimingPanel
	progress *ProgressPanel
	detach   func()
}

// NewSession builds a player for d driven by sched and attaches every panel.
func NewSession(topic *catalog.Topic, d *catalog.Diagram, sched schedule.Scheduler, loop bool) (*Session, error) {
	p, err := player.New(d.Sequence, player.Config{Loop: loop || d.Loop, Scheduler: sched})
	if err != nil {
		return nil, err
	}

	s := &Session{
		Topic:    topic,
		Diagram:  d,
		Player:   p,
		diagram:  NewDiagramPanel(d),
		steps:    NewStepsPanel(d),
		detail:   &DetailPanel{},
		table:    NewTablePanel(d.Table),
		timing:   &TimingPanel{},
		progress: &ProgressPanel{},
	}
	s.detach = panel.Attach[Snap](p, s.diagram, s.steps, s.detail, s.table, s.timing, s.progress)
	return s, nil
}

// Close detaches the panels and stops the player.
func (s *Session) Close() {
	s.detach()
	s.Player.Close()
}

func (s *Session) View(t Theme, width int) string {
	if width <= 0 {
		width = 80
	}
	inner := max(width-4, 40)

	header := Title(t).Render(s.Topic.Icon+" "+s.Topic.Title) + Subtle(t).Render("  ›  "+s.Diagram.Title)
	if s.Loop() {
		header += Subtle(t).Render("  ⟳")
	}

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(Subtle(t).Render(s.Diagram.Summary) + "\n\n")
	b.WriteString(Panel(t).Width(inner).Render(s.diagram.View(t)) + "\n")

	left := s.steps.View(t)
	right := s.detail.View(t, max(inner-lipgloss.Width(left)-6, 24))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, Panel(t).Render(left), " ", Panel(t).Render(right)) + "\n")

	if tbl := s.table.View(t); tbl != "" {
		b.WriteString(Panel(t).Render(tbl) + "\n")
	}
	b.WriteString(s.timing.View(t, inner) + "\n\n")
	b.WriteString(s.progress.View(t))
	return b.String()
}

// Loop reports whether the player wraps around.
func (s *Session) Loop() bool { return s.Player.Loop() }
