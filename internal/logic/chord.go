package logic

import "fmt"

// Chord is the combination of buttons held during one poll.
type Chord int

const (
	ChordNone Chord = iota
	ChordA
	ChordB
	ChordBoth
)

// ChordOf returns the chord for the given pressed states.
func ChordOf(aPressed, bPressed bool) Chord {
	switch {
	case aPressed && bPressed:
		return ChordBoth
	case aPressed:
		return ChordA
	case bPressed:
		return ChordB
	}
	return ChordNone
}

func (c Chord) String() string {
	switch c {
	case ChordNone:
		return "none"
	case ChordA:
		return "A"
	case ChordB:
		return "B"
	case ChordBoth:
		return "A+B"
	}
	return fmt.Sprintf("chord(%d)", int(c))
}

// Policy selects what the knob controls when no button is held.
type Policy string

const (
	// PolicyIgnore leaves everything unchanged when no button is held.
	PolicyIgnore Policy = "ignore"
	// PolicyFrameRate sets the frame rate from the knob when no button is held.
	PolicyFrameRate Policy = "frame-rate"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyIgnore, PolicyFrameRate:
		return p, nil
	}
	return "", fmt.Errorf("unknown idle policy %q (want %q or %q)", s, PolicyIgnore, PolicyFrameRate)
}

// Target is the value a chord updates.
type Target int

const (
	TargetNothing Target = iota
	TargetRed
	TargetGreen
	TargetBlue
	TargetFrameRate
)

// Channel returns the channel for a colour target. ok is false for
// TargetNothing and TargetFrameRate.
func (t Target) Channel() (ch Channel, ok bool) {
	switch t {
	case TargetRed:
		return Red, true
	case TargetGreen:
		return Green, true
	case TargetBlue:
		return Blue, true
	}
	return 0, false
}

func (t Target) String() string {
	switch t {
	case TargetNothing:
		return "nothing"
	case TargetFrameRate:
		return "frame rate"
	}
	if ch, ok := t.Channel(); ok {
		return ch.String()
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// Dispatch maps a chord to the value it updates:
// A+B sets red, A alone sets blue, B alone sets green.
// With no button held the result depends on policy.
func Dispatch(c Chord, p Policy) Target {
	switch c {
	case ChordBoth:
		return TargetRed
	case ChordA:
		return TargetBlue
	case ChordB:
		return TargetGreen
	}
	if p == PolicyFrameRate {
		return TargetFrameRate
	}
	return TargetNothing
}
