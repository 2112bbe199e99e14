// Package task runs the controller's perpetual loops side by side.
package task

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrTaskExited reports a task that returned while the process was still
// running. Task loops never return on their own, so this is a bug.
var ErrTaskExited = errors.New("task exited")

// Task is a named loop that runs until its context is done.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Join runs every task on its own goroutine and waits for all of them.
//
// When ctx is cancelled the tasks wind down and Join returns nil. If any
// task returns while ctx is still live, the remaining tasks are cancelled
// and Join panics: a perpetual loop falling through is unrecoverable.
func Join(ctx context.Context, tasks ...Task) error {
	if err := join(ctx, tasks...); err != nil {
		panic(err)
	}
	return nil
}

// join is Join without the panic.
func join(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			err := t.Run(gctx)
			if ctx.Err() != nil {
				return nil
			}
			if gctx.Err() != nil && errors.Is(err, gctx.Err()) {
				// Cancelled because a sibling failed; the sibling's error wins.
				return nil
			}
			if err == nil {
				return fmt.Errorf("%w: %s", ErrTaskExited, t.Name)
			}
			return fmt.Errorf("%w: %s: %w", ErrTaskExited, t.Name, err)
		})
	}
	return g.Wait()
}
