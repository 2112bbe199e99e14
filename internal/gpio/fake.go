package gpio

import (
	"errors"
	"sync"

	"github.com/sweeney/rgbcal/internal/logic"
)

// FakeButtons is a test double that returns scripted button states.
type FakeButtons struct {
	// Samples contains scripted (A, B) pressed states to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single button reading (already in logical form).
type Sample struct {
	A bool // true = pressed
	B bool // true = pressed
}

// NewFakeButtons creates a FakeButtons with the given samples.
func NewFakeButtons(samples ...Sample) *FakeButtons {
	return &FakeButtons{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeButtons) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.A, sample.B, nil
}

// Close marks the buttons as closed.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}

// Edge is one recorded line transition.
type Edge struct {
	Channel logic.Channel
	On      bool
}

// FakeLEDs records every Set call. Safe for concurrent use.
type FakeLEDs struct {
	mu     sync.Mutex
	edges  []Edge
	on     [3]bool
	closed bool

	// SetError, if set, will be returned by Set (nothing is recorded).
	SetError error
}

// NewFakeLEDs creates a FakeLEDs with every line low.
func NewFakeLEDs() *FakeLEDs {
	return &FakeLEDs{}
}

// Set records the transition.
func (f *FakeLEDs) Set(ch logic.Channel, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.edges = append(f.edges, Edge{Channel: ch, On: on})
	f.on[ch] = on
	return nil
}

// Edges returns a copy of every recorded transition.
func (f *FakeLEDs) Edges() []Edge {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Edge(nil), f.edges...)
}

// IsOn reports the last value set on ch.
func (f *FakeLEDs) IsOn(ch logic.Channel) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on[ch]
}

// Closed reports whether Close was called.
func (f *FakeLEDs) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close drives every line low and marks the fake closed.
func (f *FakeLEDs) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.on = [3]bool{}
	f.closed = true
	return nil
}

// Reset clears recorded transitions and errors.
func (f *FakeLEDs) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges = nil
	f.on = [3]bool{}
	f.closed = false
	f.SetError = nil
}
