package viz

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/config"
	"github.com/san-kum/webdevguide/internal/logging"
	"github.com/san-kum/webdevguide/internal/player"
	"github.com/san-kum/webdevguide/internal/schedule"
)

const (
	stateMenu = iota
	stateDiagrams
	statePlayer
)

// fireMsg carries a timer callback onto the bubbletea goroutine.
type fireMsg func()

// Model is the interactive app: topic menu, diagram list, diagram player.
type Model struct {
	cat  *catalog.Catalog
	cfg  *config.Config
	loop *schedule.Loop

	// newScheduler builds the auto-advance timer for each session.
	newScheduler func() schedule.Scheduler

	state         int
	topics        []*catalog.Topic
	cursor        int
	topic         *catalog.Topic
	diagCursor    int
	session       *Session
	message       string
	showHelp      bool
	width, height int
}

// NewModel returns the app positioned on cfg.Topic. Timer fires are delivered
// through a schedule.Loop drained by the bubbletea program.
func NewModel(cat *catalog.Catalog, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	SetTheme(cfg.Theme)

	m := &Model{
		cat:    cat,
		cfg:    cfg,
		loop:   schedule.NewLoop(0),
		width:  80,
		height: 24,
	}
	m.newScheduler = func() schedule.Scheduler {
		return schedule.Scaled(m.loop.NewTimer(), m.cfg.Speed)
	}

	for _, c := range cat.Categories() {
		m.topics = append(m.topics, cat.ByCategory(c)...)
	}
	for i, t := range m.topics {
		if t.Slug == cfg.Topic {
			m.cursor = i
		}
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.waitFire()
}

func (m *Model) waitFire() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-m.loop.C():
			return fireMsg(fn)
		case <-m.loop.Done():
			return nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fireMsg:
		msg()
		return m, m.waitFire()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		switch m.state {
		case stateMenu:
			return m, m.menuKey(msg)
		case stateDiagrams:
			return m, m.diagramsKey(msg)
		case statePlayer:
			return m, m.playerKey(msg)
		}
	}
	return m, nil
}

func (m *Model) quit() tea.Cmd {
	m.closeSession()
	m.loop.Stop()
	return tea.Quit
}

func (m *Model) menuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.topics)-1 {
			m.cursor++
		}
	case "t":
		NextTheme()
	case "enter", " ", "right", "l":
		t, err := m.cat.Resolve(m.topics[m.cursor].Slug)
		if err != nil {
			m.message = lookupMessage(err)
			return nil
		}
		m.message = ""
		m.topic, m.diagCursor, m.state = t, 0, stateDiagrams
	}
	return nil
}

func (m *Model) diagramsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "left", "h":
		m.state = stateMenu
	case "up", "k":
		if m.diagCursor > 0 {
			m.diagCursor--
		}
	case "down", "j":
		if m.diagCursor < len(m.topic.Diagrams)-1 {
			m.diagCursor++
		}
	case "enter", " ", "right", "l":
		if err := m.Open(m.topic.Slug, m.topic.Diagrams[m.diagCursor].Name); err != nil {
			m.message = err.Error()
		}
	}
	return nil
}

func (m *Model) playerKey(msg tea.KeyMsg) tea.Cmd {
	p := m.session.Player
	m.message = ""
	switch key := msg.String(); key {
	case "q", "esc":
		m.closeSession()
		m.state = stateDiagrams
		return tea.ClearScreen
	case " ", "p":
		if p.Snapshot().Status == player.Playing {
			p.Pause()
		} else {
			p.Play()
		}
	case "right", "l":
		p.StepForward()
	case "left", "h":
		p.StepBackward()
	case "r":
		p.Reset()
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if err := p.Seek(int(key[0] - '1')); err != nil {
			m.message = err.Error()
		}
	}
	return nil
}

// Open starts a session on the named diagram, closing any current one.
func (m *Model) Open(slug, diagram string) error {
	t, d, err := m.cat.Diagram(slug, diagram)
	if err != nil {
		return err
	}
	m.closeSession()

	s, err := NewSession(t, d, m.newScheduler(), m.cfg.Loop)
	if err != nil {
		return err
	}
	logging.Logger().Info("diagram opened", "topic", t.Slug, "diagram", d.Name, "steps", d.Steps(), "loop", s.Loop())

	m.topic, m.session, m.state = t, s, statePlayer
	for i, dd := range t.Diagrams {
		if dd == d {
			m.diagCursor = i
		}
	}
	return nil
}

func (m *Model) closeSession() {
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
}

// Session returns the open session, or nil.
func (m *Model) Session() *Session { return m.session }

func (m *Model) View() string {
	t := CurrentTheme
	var body string
	switch m.state {
	case stateMenu:
		body = m.viewMenu(t)
	case stateDiagrams:
		body = m.viewDiagrams(t)
	case statePlayer:
		body = m.session.View(t, m.width)
		if m.showHelp {
			body += "\n\n" + BoxWithTitle(t, "Keys", helpText(t), 52)
		}
		body += "\n" + KeyHint(t, "space", "play/pause", "←/→", "step", "1-9", "seek", "r", "reset", "t", "theme", "?", "help", "q", "back")
	}
	if m.message != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(t.Warning).Render(m.message)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m *Model) viewMenu(t Theme) string {
	var b strings.Builder
	b.WriteString(GradientText("WEB DEV GUIDE", t.Primary, t.Accent) + "\n")
	b.WriteString(Subtle(t).Render("how the web works, one step at a time") + "\n")
	b.WriteString(Separator(t, 40) + "\n")

	category := ""
	for i, topic := range m.topics {
		if topic.Category != category {
			category = topic.Category
			b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render(category) + "\n")
		}
		name := fmt.Sprintf("%s %-24s", topic.Icon, topic.Title)
		desc := truncate(topic.Description, 48)
		switch {
		case i == m.cursor:
			accent := lipgloss.NewStyle().Bold(true).Foreground(t.AccentColor(topic.Color))
			b.WriteString(accent.Render("▸ "+name) + " " + Body(t).Render(desc))
		case topic.Implemented:
			b.WriteString(Body(t).Render("  "+name) + " " + Subtle(t).Render(desc))
		default:
			b.WriteString(Subtle(t).Render("  "+name+" coming soon"))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n" + KeyHint(t, "j/k", "navigate", "enter", "open", "t", "theme", "q", "quit"))
	return b.String()
}

func (m *Model) viewDiagrams(t Theme) string {
	var b strings.Builder
	b.WriteString(Title(t).Render(m.topic.Icon+" "+m.topic.Title) + "\n")
	b.WriteString(Subtle(t).Render(m.topic.Description) + "\n")
	b.WriteString(Separator(t, 40) + "\n\n")

	for i, d := range m.topic.Diagrams {
		line := fmt.Sprintf("%-34s %2d steps  %4.1fs", d.Title, d.Steps(), d.Sequence.Total().Seconds())
		if i == m.diagCursor {
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(t.AccentColor(m.topic.Color)).Render("▸ " + line))
		} else {
			b.WriteString(Body(t).Render("  " + line))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n" + KeyHint(t, "j/k", "navigate", "enter", "play", "esc", "back"))
	return b.String()
}

func helpText(t Theme) string {
	rows := [][2]string{
		{"space", "play, pause, or replay once completed"},
		{"→ / l", "next step (wraps when looping)"},
		{"← / h", "previous step"},
		{"1-9", "jump to a step"},
		{"r", "back to the first step"},
		{"t", "cycle theme"},
		{"q", "back to the diagram list"},
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(KeyHint(t, fmt.Sprintf("%-6s", r[0]), r[1]))
	}
	return b.String()
}

func lookupMessage(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotImplemented):
		return "Topic coming soon"
	case errors.Is(err, catalog.ErrNotFound):
		return "Topic not found"
	}
	return err.Error()
}

// RunInteractive starts the full-screen app. If cfg names a diagram it opens
// straight into the player.
func RunInteractive(cat *catalog.Catalog, cfg *config.Config) error {
	m := NewModel(cat, cfg)
	if cfg != nil && cfg.Diagram != "" {
		if err := m.Open(cfg.Topic, cfg.Diagram); err != nil {
			return err
		}
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	m.closeSession()
	m.loop.Stop()
	return err
}
