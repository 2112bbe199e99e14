// Package clock provides the cooperative timer used by the renderer and the
// input loop. The fake implementation allows testing without real waits.
package clock

import (
	"context"
	"time"
)

// Sleeper suspends the calling goroutine.
type Sleeper interface {
	// Sleep waits for d or until ctx is done, whichever comes first.
	// It returns ctx.Err() if the context ended the wait.
	Sleep(ctx context.Context, d time.Duration) error
}

// Real sleeps on the runtime timer.
type Real struct{}

// Sleep waits for d. A non-positive d only checks the context.
func (Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
