package predicttask

import (
	"context"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/lukeulrich/alignshop/psiblast"
)

// blockingLauncher blocks until ctx is canceled, letting a test observe a
// task actually in flight inside Pool.Run before canceling the pool's ctx.
type blockingLauncher struct {
	started chan struct{}
}

func (b *blockingLauncher) Run(ctx context.Context, cmd *exec.Cmd) error {
	// A real psiblast exit closes its stderr fd; since this fake never
	// calls cmd.Start, it has to close cmd.Stderr itself or tool.run blocks
	// forever waiting for watchProgress to observe EOF.
	defer func() {
		if c, ok := cmd.Stderr.(io.Closer); ok {
			_ = c.Close()
		}
	}()
	close(b.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestPoolRunReportsPerTaskErrors(t *testing.T) {
	badOpts := psiblast.NewOptionSet()
	badOpts.Set(psiblast.IterationsOpt, 1) // invalid: fewer than two iterations

	tasks := make([]*Task, 0, 3)
	for i := 0; i < 3; i++ {
		tasks = append(tasks, NewTask(i, newSequence(t), badOpts, 1, newIdleTool(t), nil))
	}

	pool := Pool{Concurrency: 2}
	errs := pool.Run(context.Background(), tasks)

	if len(errs) != len(tasks) {
		t.Fatalf("len(errs)=%d, want %d", len(errs), len(tasks))
	}
	for i, err := range errs {
		if err == nil {
			t.Errorf("errs[%d]=nil, want an error for invalid options", i)
		}
	}
}

func TestPoolRunHonorsCancelBeforeStart(t *testing.T) {
	opts := psiblast.NewOptionSet()
	opts.Set(psiblast.IterationsOpt, 3)

	tasks := []*Task{NewTask(1, newSequence(t), opts, 1, newIdleTool(t), nil)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := Pool{Concurrency: 1}
	errs := pool.Run(ctx, tasks)

	if len(errs) != 1 {
		t.Fatalf("len(errs)=%d, want 1", len(errs))
	}
	if errs[0] == nil {
		t.Fatal("expected a canceled-context error")
	}
}

func TestPoolRunCancelsInFlightTask(t *testing.T) {
	opts := psiblast.NewOptionSet()
	opts.Set(psiblast.IterationsOpt, 3)

	tool := newIdleTool(t)
	blocking := &blockingLauncher{started: make(chan struct{})}
	tool.SetLauncher(blocking)

	tasks := []*Task{NewTask(1, newSequence(t), opts, 1, tool, nil)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []error, 1)
	pool := Pool{Concurrency: 1}
	go func() { done <- pool.Run(ctx, tasks) }()

	select {
	case <-blocking.started:
	case <-time.After(5 * time.Second):
		t.Fatal("task never reached the blocking launcher")
	}
	// The task is now in flight inside Pool.Run's errgroup; canceling the
	// pool's ctx must propagate into gctx and unblock it, not merely be
	// checked before the task starts.
	cancel()

	select {
	case errs := <-done:
		if len(errs) != 1 || errs[0] == nil {
			t.Fatalf("errs=%v, want a single cancellation error", errs)
		}
		if tasks[0].Status() != StatusError {
			t.Fatalf("Status()=%v, want StatusError after cancellation", tasks[0].Status())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Pool.Run did not return after the pool's ctx was canceled")
	}
}

func TestPoolRunUnboundedConcurrency(t *testing.T) {
	badOpts := psiblast.NewOptionSet()
	badOpts.Set(psiblast.IterationsOpt, 1)

	tasks := make([]*Task, 0, 5)
	for i := 0; i < 5; i++ {
		tasks = append(tasks, NewTask(i, newSequence(t), badOpts, 1, newIdleTool(t), nil))
	}

	pool := Pool{}
	errs := pool.Run(context.Background(), tasks)
	if len(errs) != len(tasks) {
		t.Fatalf("len(errs)=%d, want %d", len(errs), len(tasks))
	}
}
