package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/webdevguide/internal/catalog"
	"github.com/san-kum/webdevguide/internal/player"
	"github.com/san-kum/webdevguide/internal/sequence"
)

func testDiagram(t *testing.T) *catalog.Diagram {
	t.Helper()
	seq, err := sequence.New([]catalog.Step{
		{ID: "syn", Label: "SYN", DurationMs: 1000, Visual: catalog.Visual{
			Arrow: &catalog.Arrow{From: "Client", To: "Server", Label: "SYN"},
		}},
		{ID: "ack", Label: "ACK", DurationMs: 500, Visual: catalog.Visual{
			Highlight: []string{"Server", "fast"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &catalog.Diagram{
		Name:  "tcp",
		Nodes: []string{"Client", "Server"},
		Table: &catalog.Table{
			Columns: []string{"Mode", "Speed"},
			Rows: []catalog.Row{
				{Key: "syn", Cells: []string{"handshake", "slow"}},
				{Key: "fast", Cells: []string{"reuse", "fast"}},
			},
		},
		Sequence: seq,
	}
}

func snapAt(d *catalog.Diagram, i int, s player.Status) Snap {
	return Snap{Index: i, Total: d.Steps(), Status: s, Step: d.Sequence.At(i)}
}

func TestDiagramPanelArrow(t *testing.T) {
	d := testDiagram(t)
	p := NewDiagramPanel(d)

	p.Render(snapAt(d, 0, player.Playing))
	view := p.View(ThemeMinimal)
	if !strings.Contains(view, "Client") || !strings.Contains(view, "Server") {
		t.Errorf("nodes missing from %q", view)
	}
	if !strings.Contains(view, "SYN") {
		t.Errorf("arrow label missing from %q", view)
	}

	p.Render(snapAt(d, 1, player.Playing))
	if strings.Contains(p.View(ThemeMinimal), "SYN") {
		t.Error("arrow label kept after moving to a step without arrow")
	}
}

func TestTablePanelHighlights(t *testing.T) {
	d := testDiagram(t)
	p := NewTablePanel(d.Table)

	active := func() []string {
		var rows []string
		for _, line := range strings.Split(p.View(ThemeMinimal), "\n") {
			if strings.Contains(line, "▸") {
				rows = append(rows, line)
			}
		}
		return rows
	}

	p.Render(snapAt(d, 0, player.Paused))
	if rows := active(); len(rows) != 1 || !strings.Contains(rows[0], "handshake") {
		t.Errorf("step id should select its row, got %q", rows)
	}

	p.Render(snapAt(d, 1, player.Paused))
	if rows := active(); len(rows) != 1 || !strings.Contains(rows[0], "reuse") {
		t.Errorf("highlight should select its row, got %q", rows)
	}

	if NewTablePanel(nil).View(ThemeMinimal) != "" {
		t.Error("expected empty view without table")
	}
}

func TestStepsPanelMarkers(t *testing.T) {
	d := testDiagram(t)
	p := NewStepsPanel(d)

	p.Render(snapAt(d, 1, player.Playing))
	lines := strings.Split(p.View(ThemeMinimal), "\n")
	if !strings.Contains(lines[0], "✓") {
		t.Errorf("past step not ticked: %q", lines[0])
	}
	if !strings.Contains(lines[1], "▸") {
		t.Errorf("current step not marked: %q", lines[1])
	}
}

func TestTimingPanelCapacity(t *testing.T) {
	d := testDiagram(t)
	p := &TimingPanel{}
	if p.View(ThemeMinimal, 60) != "" {
		t.Error("expected empty graph before any snapshot")
	}
	for i := 0; i < timingCapacity+10; i++ {
		p.Render(snapAt(d, i%2, player.Playing))
	}
	if len(p.history) != timingCapacity {
		t.Errorf("expected %d points, got %d", timingCapacity, len(p.history))
	}
	if p.View(ThemeMinimal, 60) == "" {
		t.Error("expected a graph")
	}
}

func TestCanvasArrow(t *testing.T) {
	c := NewCanvas(10, 1)
	if !c.Blank() {
		t.Fatal("new canvas not blank")
	}
	c.DrawArrow(1, 8, 0)
	if c.Blank() {
		t.Error("arrow not drawn")
	}
	if got := len([]rune(c.String())); got != 10 {
		t.Errorf("expected 10 cells, got %d", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	SetTheme("slate")
	seen := map[string]bool{}
	for range Themes {
		seen[NextTheme().Name] = true
	}
	if len(seen) != len(Themes) {
		t.Errorf("expected to visit %d themes, visited %v", len(Themes), seen)
	}
	if CurrentTheme.Name != "slate" {
		t.Errorf("expected to wrap to slate, got %s", CurrentTheme.Name)
	}
}

func TestAccentColor(t *testing.T) {
	if got := ThemeSlate.AccentColor("pink"); got != Accents["pink"] {
		t.Errorf("expected pink accent, got %s", got)
	}
	if got := ThemeSlate.AccentColor("nope"); got != ThemeSlate.Accent {
		t.Errorf("expected theme accent fallback, got %s", got)
	}
}

func TestProgressPanelMarksLastStep(t *testing.T) {
	d := testDiagram(t)
	p := &ProgressPanel{}

	tests := []struct {
		index  int
		status player.Status
		want   bool
	}{
		{0, player.Playing, false},
		{1, player.Playing, true},
		{1, player.Paused, true},
		{1, player.Completed, false},
	}
	for _, tt := range tests {
		p.Render(snapAt(d, tt.index, tt.status))
		view := p.View(ThemeMinimal)
		if got := strings.Contains(view, "last step"); got != tt.want {
			t.Errorf("index %d %s: last step marker = %v, want %v in %q", tt.index, tt.status, got, tt.want, view)
		}
	}
}
