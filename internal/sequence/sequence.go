package sequence

import (
	"fmt"
	"time"
)

// MinDuration is the shortest time a step stays active under auto-advance.
// A zero duration still waits one tick.
const MinDuration = time.Millisecond

// Step is one stage of a conceptual process.
type Step[V any] struct {
	ID         string `yaml:"id" json:"id"`
	Label      string `yaml:"label" json:"label"`
	Detail     string `yaml:"detail" json:"detail"`
	DurationMs int    `yaml:"duration_ms" json:"duration_ms"`
	Visual     V      `yaml:"visual" json:"visual"`
}

// Duration returns how long the step stays active while playing.
func (s Step[V]) Duration() time.Duration {
	d := time.Duration(s.DurationMs) * time.Millisecond
	if d < MinDuration {
		return MinDuration
	}
	return d
}

// Sequence is an ordered, non-empty list of steps with unique ids.
type Sequence[V any] struct {
	steps []Step[V]
	index map[string]int
}

// New validates steps and returns an immutable sequence holding a copy of them.
func New[V any](steps []Step[V]) (*Sequence[V], error) {
	if err := Validate(steps); err != nil {
		return nil, err
	}

	s := &Sequence[V]{
		steps: make([]Step[V], len(steps)),
		index: make(map[string]int, len(steps)),
	}
	copy(s.steps, steps)
	for i, st := range s.steps {
		s.index[st.ID] = i
	}
	return s, nil
}

// Validate rejects an empty list, empty or duplicate ids, and negative durations.
func Validate[V any](steps []Step[V]) error {
	if len(steps) == 0 {
		return &ValidationError{Index: -1, Reason: "no steps"}
	}

	seen := make(map[string]int, len(steps))
	for i, st := range steps {
		if st.ID == "" {
			return &ValidationError{Index: i, Reason: "empty id"}
		}
		if prev, ok := seen[st.ID]; ok {
			return &ValidationError{Index: i, StepID: st.ID, Reason: fmt.Sprintf("duplicate id (first at step %d)", prev)}
		}
		seen[st.ID] = i
		if st.DurationMs < 0 {
			return &ValidationError{Index: i, StepID: st.ID, Reason: "negative duration_ms"}
		}
	}
	return nil
}

// Len returns the number of steps. A nil sequence has none.
func (s *Sequence[V]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.steps)
}

// At returns the step at i. It panics when i is out of range, like a slice.
func (s *Sequence[V]) At(i int) Step[V] {
	return s.steps[i]
}

// Steps returns a copy of the steps.
func (s *Sequence[V]) Steps() []Step[V] {
	out := make([]Step[V], len(s.steps))
	copy(out, s.steps)
	return out
}

// IndexOf returns the position of the step with the given id.
func (s *Sequence[V]) IndexOf(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Total returns the sum of all step durations.
func (s *Sequence[V]) Total() time.Duration {
	var total time.Duration
	for _, st := range s.steps {
		total += st.Duration()
	}
	return total
}
