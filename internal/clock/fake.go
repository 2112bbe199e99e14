package clock

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Fake records requested durations and returns immediately.
type Fake struct {
	mu     sync.Mutex
	sleeps []time.Duration

	// OnSleep, if set, is called after each recorded sleep.
	OnSleep func(d time.Duration)
}

// Sleep records d. It yields the processor so loops driven by a Fake do not
// starve other goroutines.
func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.sleeps = append(f.sleeps, d)
	hook := f.OnSleep
	f.mu.Unlock()

	if hook != nil {
		hook(d)
	}
	runtime.Gosched()
	return ctx.Err()
}

// Sleeps returns a copy of every recorded duration.
func (f *Fake) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.sleeps...)
}

// Total returns the sum of recorded durations.
func (f *Fake) Total() time.Duration {
	var total time.Duration
	for _, d := range f.Sleeps() {
		total += d
	}
	return total
}

// Reset clears recorded durations.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.sleeps = nil
	f.mu.Unlock()
}
