// Package runner runs a matrix of comparisons on a bounded worker pool and
// serves their results over HTTP.
package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gitlab.com/akita/simcmp/comparison"
	"gitlab.com/akita/simcmp/report"
)

// A Comparator runs one job.
type Comparator interface {
	Run(job comparison.Job) *comparison.Result
}

// Runner dispatches jobs to a Comparator.
type Runner struct {
	comparator Comparator
	workers    int

	store  *Store
	tracer *RunTracer
}

// NewRunner creates a runner with at most workers concurrent runs.
func NewRunner(c Comparator, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		comparator: c,
		workers:    workers,
		store:      NewStore(),
		tracer:     newRunTracer(),
	}
}

// Store returns where finished results are kept.
func (r *Runner) Store() *Store {
	return r.store
}

// Tracer returns the tracer of the runs.
func (r *Runner) Tracer() *RunTracer {
	return r.tracer
}

// Run runs all jobs. A failing run does not stop the others. When ctx is
// cancelled no further runs start; the results of the runs that finished
// are returned in job order together with the context error. Runs that
// never started are nil.
func (r *Runner) Run(ctx context.Context, jobs []comparison.Job) ([]*comparison.Result, error) {
	results := make([]*comparison.Result, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}

		i, job := i, job
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			id := r.tracer.StartRun(job)
			res := r.comparator.Run(job)
			r.tracer.EndRun(id)

			r.store.Add(res)
			results[i] = res
			return nil
		})
	}

	g.Wait()
	return results, ctx.Err()
}

// MatrixRows converts results into rows of the matrix table, skipping runs
// that never started.
func MatrixRows(results []*comparison.Result) []report.MatrixRow {
	rows := make([]report.MatrixRow, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		rows = append(rows, res.MatrixRow())
	}
	return rows
}
