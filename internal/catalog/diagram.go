package catalog

import (
	"errors"
	"fmt"

	"github.com/san-kum/webdevguide/internal/sequence"
)

// Visual is the per-step payload of a diagram: which nodes or table rows to
// highlight and which message arrow to draw.
type Visual struct {
	Highlight []string `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	Arrow     *Arrow   `yaml:"arrow,omitempty" json:"arrow,omitempty"`
	Accent    string   `yaml:"accent,omitempty" json:"accent,omitempty"`
}

// Highlights reports whether name is highlighted.
func (v Visual) Highlights(name string) bool {
	for _, h := range v.Highlight {
		if h == name {
			return true
		}
	}
	return false
}

// Arrow is a message travelling between two nodes.
type Arrow struct {
	From  string `yaml:"from" json:"from"`
	To    string `yaml:"to" json:"to"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Table is an optional comparison table shown beside a diagram.
type Table struct {
	Columns []string `yaml:"columns" json:"columns"`
	Rows    []Row    `yaml:"rows" json:"rows"`
}

// Row is one table row. Key is matched against step ids and highlights.
type Row struct {
	Key   string   `yaml:"key" json:"key"`
	Cells []string `yaml:"cells" json:"cells"`
}

// Step is a diagram step.
type Step = sequence.Step[Visual]

// Diagram is one animated diagram of a topic.
type Diagram struct {
	Name     string
	Title    string
	Summary  string
	Loop     bool
	Nodes    []string
	Table    *Table
	Sequence *sequence.Sequence[Visual]
}

type diagramsDoc struct {
	Topic    string       `yaml:"topic"`
	Diagrams []diagramDoc `yaml:"diagrams"`
}

type diagramDoc struct {
	Name    string   `yaml:"name"`
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Loop    bool     `yaml:"loop"`
	Nodes   []string `yaml:"nodes"`
	Table   *Table   `yaml:"table"`
	Steps   []Step   `yaml:"steps"`
}

func (dd diagramDoc) build() (*Diagram, error) {
	seq, err := sequence.New(dd.Steps)
	if err != nil {
		return nil, err
	}
	if err := dd.checkVisuals(); err != nil {
		return nil, err
	}
	return &Diagram{
		Name:     dd.Name,
		Title:    dd.Title,
		Summary:  dd.Summary,
		Loop:     dd.Loop,
		Nodes:    dd.Nodes,
		Table:    dd.Table,
		Sequence: seq,
	}, nil
}

// checkVisuals makes sure every payload refers to something the renderers
// can draw: arrows join known nodes, highlights name a node or a table row.
func (dd diagramDoc) checkVisuals() error {
	nodes := make(map[string]bool, len(dd.Nodes))
	for _, n := range dd.Nodes {
		nodes[n] = true
	}
	rows := make(map[string]bool)
	if dd.Table != nil {
		for i, r := range dd.Table.Rows {
			if len(r.Cells) != len(dd.Table.Columns) {
				return fmt.Errorf("table row %d (%s): %d cells for %d columns", i, r.Key, len(r.Cells), len(dd.Table.Columns))
			}
			rows[r.Key] = true
		}
	}

	var errs []error
	for _, st := range dd.Steps {
		if a := st.Visual.Arrow; a != nil {
			if !nodes[a.From] || !nodes[a.To] {
				errs = append(errs, fmt.Errorf("step %s: arrow %s -> %s joins unknown node", st.ID, a.From, a.To))
			}
		}
		for _, h := range st.Visual.Highlight {
			if !nodes[h] && !rows[h] {
				errs = append(errs, fmt.Errorf("step %s: highlight %q is not a node or table row", st.ID, h))
			}
		}
	}
	return errors.Join(errs...)
}

// Steps returns the number of steps.
func (d *Diagram) Steps() int { return d.Sequence.Len() }
