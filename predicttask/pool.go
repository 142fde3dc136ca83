package predicttask

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool runs a batch of Tasks with bounded concurrency, adapted from the
// worker-pool shape of
// _examples/inodb-vibe-vep/internal/annotate/parallel.go's
// ParallelAnnotate/OrderedCollect pair, but built on errgroup.Group.SetLimit
// instead of a hand-rolled sync.WaitGroup and channel fan-in: Tasks carry
// their own ID for result identification, so there is no sequence-ordering
// concern OrderedCollect existed to solve.
type Pool struct {
	Concurrency int
}

// Run starts every task with bounded concurrency (Concurrency workers at
// once; Concurrency <= 0 means unbounded) and returns one error per task,
// aligned index-for-index with tasks, nil where a task succeeded. A task
// that has not started when ctx is canceled records ctx.Err(); running
// tasks see the cancellation through their own context.
func (p Pool) Run(ctx context.Context, tasks []*Task) []error {
	errs := make([]error, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return nil
			default:
			}
			errs[i] = task.Start(gctx)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
