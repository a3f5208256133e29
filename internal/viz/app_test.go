package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/config"
	"github.com/san-kum/webdevguide/internal/player"
	"github.com/san-kum/webdevguide/internal/schedule"
)

func newTestModel(t *testing.T) (*Model, *schedule.Clock) {
	t.Helper()
	clock := schedule.NewClock()
	m := NewModel(catalog.MustLoad(), config.DefaultConfig())
	m.newScheduler = func() schedule.Scheduler { return clock.NewTimer() }
	t.Cleanup(func() {
		m.closeSession()
		m.loop.Stop()
	})
	return m, clock
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestMenuStartsOnConfiguredTopic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Topic = "event-loop"
	m := NewModel(catalog.MustLoad(), cfg)
	defer m.loop.Stop()

	if got := m.topics[m.cursor].Slug; got != "event-loop" {
		t.Errorf("expected cursor on event-loop, got %s", got)
	}
}

func TestMenuComingSoon(t *testing.T) {
	m, _ := newTestModel(t)
	for i, topic := range m.topics {
		if topic.Slug == "graphql" {
			m.cursor = i
		}
	}

	press(m, "enter")
	if m.state != stateMenu {
		t.Errorf("expected to stay on the menu, got state %d", m.state)
	}
	if m.message != "Topic coming soon" {
		t.Errorf("unexpected message %q", m.message)
	}
}

func TestMenuToPlayer(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = 0

	press(m, "enter")
	if m.state != stateDiagrams || m.topic.Slug != "http" {
		t.Fatalf("expected http diagram list, got state %d", m.state)
	}

	press(m, "j", "enter")
	if m.state != statePlayer {
		t.Fatalf("expected player, got state %d", m.state)
	}
	if got := m.Session().Diagram.Name; got != "tls-handshake" {
		t.Errorf("expected tls-handshake, got %s", got)
	}

	press(m, "q")
	if m.state != stateDiagrams || m.Session() != nil {
		t.Errorf("expected session closed and diagram list shown")
	}
}

func TestPlayerKeys(t *testing.T) {
	m, clock := newTestModel(t)
	if err := m.Open("http", "request-response"); err != nil {
		t.Fatal(err)
	}
	p := m.Session().Player

	press(m, " ")
	if p.Snapshot().Status != player.Playing {
		t.Fatalf("expected playing, got %s", p.Snapshot().Status)
	}

	clock.Advance(1500 * time.Millisecond)
	if got := p.Snapshot().Index; got != 1 {
		t.Errorf("expected auto-advance to step 1, got %d", got)
	}

	press(m, " ")
	if p.Snapshot().Status != player.Paused {
		t.Errorf("expected paused, got %s", p.Snapshot().Status)
	}

	press(m, "l", "l")
	if got := p.Snapshot().Index; got != 3 {
		t.Errorf("expected step 3, got %d", got)
	}
	press(m, "h")
	if got := p.Snapshot().Index; got != 2 {
		t.Errorf("expected step 2, got %d", got)
	}

	press(m, "5")
	if got := p.Snapshot().Index; got != 4 {
		t.Errorf("expected seek to step 4, got %d", got)
	}

	press(m, "9")
	if m.message == "" {
		t.Error("expected an out of range message")
	}
	if got := p.Snapshot().Index; got != 4 {
		t.Errorf("failed seek moved the player to %d", got)
	}

	press(m, "r")
	if s := p.Snapshot(); s.Index != 0 || s.Status != player.Idle {
		t.Errorf("expected reset to idle at 0, got %d %s", s.Index, s.Status)
	}
}

func TestPanelsFollowPlayer(t *testing.T) {
	m, clock := newTestModel(t)
	if err := m.Open("http", "request-response"); err != nil {
		t.Fatal(err)
	}
	s := m.Session()

	press(m, " ")
	clock.Advance(1500 * time.Millisecond)

	for name, got := range map[string]int{
		"diagram":  s.diagram.snap.Index,
		"steps":    s.steps.snap.Index,
		"detail":   s.detail.snap.Index,
		"table":    s.table.snap.Index,
		"progress": s.progress.snap.Index,
	} {
		if got != 1 {
			t.Errorf("%s panel at step %d, want 1", name, got)
		}
	}

	view := m.View()
	for _, want := range []string{"Resolve the host", "A example.com?", "PLAYING"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFireMsgRunsCallback(t *testing.T) {
	m, _ := newTestModel(t)
	ran := false

	_, cmd := m.Update(fireMsg(func() { ran = true }))
	if !ran {
		t.Error("fire callback not run")
	}
	if cmd == nil {
		t.Error("expected the next wait command")
	}
}

func TestLoopingDiagramNeverCompletes(t *testing.T) {
	m, clock := newTestModel(t)
	if err := m.Open("internet", "packet-routing"); err != nil {
		t.Fatal(err)
	}
	p := m.Session().Player
	if !p.Loop() {
		t.Fatal("packet-routing should loop")
	}

	press(m, " ")
	clock.Advance(30 * time.Second)
	if got := p.Snapshot().Status; got != player.Playing {
		t.Errorf("expected still playing, got %s", got)
	}
}

func TestQuitClosesSession(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.Open("dns", ""); err != nil {
		t.Fatal(err)
	}
	p := m.Session().Player

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.Session() != nil {
		t.Error("session not closed")
	}
	if sub := p.Subscribe(func(Snap) {}); sub.Active() {
		t.Error("player still accepts subscribers after quit")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.Open("http", "request-response"); err != nil {
		t.Fatal(err)
	}

	press(m, "?")
	if v := m.View(); !strings.Contains(v, "Keys") || !strings.Contains(v, "jump to a step") {
		t.Errorf("help not shown:\n%s", v)
	}
	press(m, "?")
	if strings.Contains(m.View(), "jump to a step") {
		t.Error("help still shown after second ?")
	}
}
