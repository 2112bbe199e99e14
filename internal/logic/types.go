// Package logic contains the pure brightness and input-chord rules for the
// RGB controller. This package has NO hardware, lock, or sleep dependencies.
package logic

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Levels is the number of discrete brightness steps per channel.
const Levels = 16

// MaxLevel is the brightest Level.
const MaxLevel Level = Levels - 1

// Level is a brightness step in [0, Levels-1].
type Level int

// ClampLevel forces v into [0, MaxLevel].
func ClampLevel(v int) Level {
	return Level(Clamp(v, 0, int(MaxLevel)))
}

// Channel identifies one LED colour. The index-to-colour mapping is fixed.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// Channels lists every channel in render order.
var Channels = [3]Channel{Red, Green, Blue}

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Triple holds one Level per channel, indexed by Channel.
type Triple [3]Level

// Clamped returns a copy with every level forced into range.
func (t Triple) Clamped() Triple {
	for i, l := range t {
		t[i] = ClampLevel(int(l))
	}
	return t
}

// FrameRate is the number of full RGB cycles per second. Always positive.
type FrameRate int

// DefaultFrameRate is the frame rate used before any input arrives.
const DefaultFrameRate FrameRate = 100

// Status is the user-visible state: per-channel levels and the frame rate.
type Status struct {
	Levels    Triple
	FrameRate FrameRate
}

// DefaultStatus returns max brightness on every channel at DefaultFrameRate.
func DefaultStatus() Status {
	return Status{
		Levels:    Triple{MaxLevel, MaxLevel, MaxLevel},
		FrameRate: DefaultFrameRate,
	}
}

// String renders the status line printed on every change.
func (s Status) String() string {
	return fmt.Sprintf("red: %d, green: %d, blue: %d, frame rate: %d",
		s.Levels[Red], s.Levels[Green], s.Levels[Blue], s.FrameRate)
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
