package index

import (
	"context"
	"time"

	"github.com/pbanos/levelforest/queue"
)

// emptyQueueSleep is how long a worker waits before retrying Pull
// once a level's queue has gone empty without the running+pending
// count reaching zero.
const emptyQueueSleep = 10 * time.Millisecond

// runQueue starts workers goroutines draining q, each in the same
// pull/process/complete-or-drop loop, and waits for all of them to
// finish: either the queue runs dry or a worker returns an error.
// Grounded on botanic.go's Work/workTask single-worker loop,
// generalized to a bounded pool of concurrent workers over one
// level's tasks instead of one worker over the whole tree.
func runQueue(ctx context.Context, q queue.Queue, workers int, process func(context.Context, *queue.Task) error) error {
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			errs <- work(ctx, q, process)
		}()
	}
	var firstErr error
	for i := 0; i < workers; i++ {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func work(ctx context.Context, q queue.Queue, process func(context.Context, *queue.Task) error) error {
	for {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			running, pending, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if running+pending == 0 {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		if err := workTask(tctx, task, q, process); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func workTask(ctx context.Context, task *queue.Task, q queue.Queue, process func(context.Context, *queue.Task) error) error {
	defer q.Drop(ctx, task.ID())
	if err := process(ctx, task); err != nil {
		return err
	}
	return q.Complete(ctx, task.ID())
}
