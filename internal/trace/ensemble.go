package trace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/webdevguide/internal/sequence"
)

// Job is one sequence to trace as part of an Ensemble.
type Job[V any] struct {
	Name string
	Seq  *sequence.Sequence[V]
	Opts Options
}

type Result struct {
	Name   string
	Events []Event
}

// Ensemble traces many sequences against the same script concurrently.
type Ensemble[V any] struct {
	jobs []Job[V]
	cmds []Command
}

func NewEnsemble[V any](cmds []Command, jobs ...Job[V]) *Ensemble[V] {
	return &Ensemble[V]{jobs: jobs, cmds: cmds}
}

// Run returns results in job order. Every failed job is reported, each
// wrapped with its name.
func (e *Ensemble[V]) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i, job := range e.jobs {
		wg.Add(1)
		go func(idx int, job Job[V]) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, err)
				return
			}
			events, err := Run(job.Seq, e.cmds, job.Opts)
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, err)
				return
			}
			results[idx] = Result{Name: job.Name, Events: events}
		}(i, job)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
