// Package catalog is the topic catalog: topic metadata, the routing lookup
// and the authored step data for every animated diagram.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/san-kum/webdevguide/internal/logging"
	"gopkg.in/yaml.v3"
)

//go:embed content
var content embed.FS

// Lookup errors returned by Resolve and Diagram.
var (
	ErrNotFound       = errors.New("catalog: topic not found")
	ErrNotImplemented = errors.New("catalog: topic coming soon")
	ErrUnknownDiagram = errors.New("catalog: unknown diagram")
)

// Topic is one lesson of the site.
type Topic struct {
	Slug        string     `yaml:"slug" json:"slug"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Icon        string     `yaml:"icon" json:"icon"`
	Color       string     `yaml:"color" json:"color"`
	Category    string     `yaml:"category" json:"category"`
	Implemented bool       `yaml:"implemented" json:"implemented"`
	Diagrams    []*Diagram `yaml:"-" json:"-"`
}

// Diagram returns the named diagram of t. An empty name selects the first.
func (t *Topic) Diagram(name string) (*Diagram, error) {
	if name == "" && len(t.Diagrams) > 0 {
		return t.Diagrams[0], nil
	}
	for _, d := range t.Diagrams {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrUnknownDiagram, t.Slug, name)
}

// Catalog holds every topic in authored order.
type Catalog struct {
	topics     []*Topic
	bySlug     map[string]*Topic
	categories []string
}

type topicsDoc struct {
	Categories []string `yaml:"categories"`
	Topics     []*Topic `yaml:"topics"`
}

// Load reads the embedded catalog.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// MustLoad is Load for package-level initialisation; it panics on error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS reads topics.yaml and diagrams/*.yaml from fsys. Every diagram is
// validated; all problems are reported together.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, "topics.yaml")
	if err != nil {
		return nil, err
	}

	var doc topicsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("topics.yaml: %w", err)
	}

	c := &Catalog{
		topics:     doc.Topics,
		bySlug:     make(map[string]*Topic, len(doc.Topics)),
		categories: doc.Categories,
	}

	var errs []error
	known := make(map[string]bool, len(doc.Categories))
	for _, cat := range doc.Categories {
		known[cat] = true
	}
	for _, t := range doc.Topics {
		if _, dup := c.bySlug[t.Slug]; dup {
			errs = append(errs, fmt.Errorf("topics.yaml: duplicate slug %q", t.Slug))
			continue
		}
		if !known[t.Category] {
			errs = append(errs, fmt.Errorf("topics.yaml: topic %q has unknown category %q", t.Slug, t.Category))
		}
		c.bySlug[t.Slug] = t
	}

	files, err := fs.Glob(fsys, "diagrams/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	diagrams := 0
	for _, file := range files {
		n, err := c.loadDiagrams(fsys, file)
		diagrams += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, t := range c.topics {
		if t.Implemented && len(t.Diagrams) == 0 {
			errs = append(errs, fmt.Errorf("topics.yaml: implemented topic %q has no diagrams", t.Slug))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	logging.Logger().Info("catalog loaded", "topics", len(c.topics), "diagrams", diagrams)
	return c, nil
}

func (c *Catalog) loadDiagrams(fsys fs.FS, file string) (int, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return 0, err
	}

	var doc diagramsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("%s: %w", path.Base(file), err)
	}

	t, ok := c.bySlug[doc.Topic]
	if !ok {
		return 0, fmt.Errorf("%s: %w: %s", path.Base(file), ErrNotFound, doc.Topic)
	}

	var errs []error
	seen := make(map[string]bool, len(doc.Diagrams))
	for _, dd := range doc.Diagrams {
		if seen[dd.Name] {
			errs = append(errs, fmt.Errorf("%s/%s: duplicate diagram name", t.Slug, dd.Name))
			continue
		}
		seen[dd.Name] = true

		d, err := dd.build()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", t.Slug, dd.Name, err))
			continue
		}
		t.Diagrams = append(t.Diagrams, d)
	}
	return len(t.Diagrams), errors.Join(errs...)
}

// Topics returns every topic in authored order.
func (c *Catalog) Topics() []*Topic {
	out := make([]*Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Categories returns the category names in display order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// BySlug looks a topic up by its URL path segment.
func (c *Catalog) BySlug(slug string) (*Topic, bool) {
	t, ok := c.bySlug[slug]
	return t, ok
}

// ByCategory returns the topics of one category.
func (c *Catalog) ByCategory(category string) []*Topic {
	var out []*Topic
	for _, t := range c.topics {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Implemented returns the topics that have content.
func (c *Catalog) Implemented() []*Topic {
	var out []*Topic
	for _, t := range c.topics {
		if t.Implemented {
			out = append(out, t)
		}
	}
	return out
}

// Resolve is the page-load lookup: unknown slugs fail with ErrNotFound and
// unimplemented topics with ErrNotImplemented.
func (c *Catalog) Resolve(slug string) (*Topic, error) {
	t, ok := c.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if !t.Implemented {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, slug)
	}
	return t, nil
}

// Diagram resolves slug and returns its named diagram.
func (c *Catalog) Diagram(slug, name string) (*Topic, *Diagram, error) {
	t, err := c.Resolve(slug)
	if err != nil {
		return nil, nil, err
	}
	d, err := t.Diagram(name)
	if err != nil {
		return nil, nil, err
	}
	return t, d, nil
}
