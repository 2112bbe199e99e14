// Package state holds the levels and frame rate shared between the renderer
// and the input loop.
package state

import (
	"sync"

	"github.com/sweeney/rgbcal/internal/logic"
)

// Shared is the single point of communication between the renderer (reader)
// and the input loop (writer). Every accessor holds the lock only for the
// in-place operation; callers must not wait or do I/O inside a mutator.
type Shared struct {
	mu        sync.Mutex
	levels    logic.Triple
	frameRate logic.FrameRate
}

// New creates shared state holding s. Out-of-range values are clamped.
func New(s logic.Status) *Shared {
	sh := &Shared{}
	sh.levels = s.Levels.Clamped()
	sh.frameRate = positive(s.FrameRate)
	return sh
}

// NewDefault creates shared state with max brightness on every channel and
// the default frame rate.
func NewDefault() *Shared {
	return New(logic.DefaultStatus())
}

// Levels returns a copy of the current levels.
func (s *Shared) Levels() logic.Triple {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels
}

// SetLevels applies fn to the levels in place. Levels are clamped into range
// afterwards.
func (s *Shared) SetLevels(fn func(*logic.Triple)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.levels)
	s.levels = s.levels.Clamped()
}

// FrameRate returns the current frame rate.
func (s *Shared) FrameRate() logic.FrameRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameRate
}

// SetFrameRate applies fn to the frame rate in place. A non-positive result
// is coerced to 1.
func (s *Shared) SetFrameRate(fn func(*logic.FrameRate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.frameRate)
	s.frameRate = positive(s.frameRate)
}

// Snapshot returns levels and frame rate read under one lock.
func (s *Shared) Snapshot() logic.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return logic.Status{Levels: s.levels, FrameRate: s.frameRate}
}

func positive(fr logic.FrameRate) logic.FrameRate {
	if fr <= 0 {
		return 1
	}
	return fr
}
