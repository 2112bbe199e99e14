package logic

import "testing"

func TestChordOf(t *testing.T) {
	tests := []struct {
		a, b bool
		want Chord
	}{
		{false, false, ChordNone},
		{true, false, ChordA},
		{false, true, ChordB},
		{true, true, ChordBoth},
	}

	for _, tt := range tests {
		if got := ChordOf(tt.a, tt.b); got != tt.want {
			t.Errorf("ChordOf(%v, %v): got %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		chord  Chord
		policy Policy
		want   Target
	}{
		{ChordBoth, PolicyIgnore, TargetRed},
		{ChordA, PolicyIgnore, TargetBlue},
		{ChordB, PolicyIgnore, TargetGreen},
		{ChordNone, PolicyIgnore, TargetNothing},
		{ChordBoth, PolicyFrameRate, TargetRed},
		{ChordA, PolicyFrameRate, TargetBlue},
		{ChordB, PolicyFrameRate, TargetGreen},
		{ChordNone, PolicyFrameRate, TargetFrameRate},
	}

	for _, tt := range tests {
		t.Run(tt.chord.String()+"/"+string(tt.policy), func(t *testing.T) {
			if got := Dispatch(tt.chord, tt.policy); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTargetChannel(t *testing.T) {
	for target, want := range map[Target]Channel{TargetRed: Red, TargetGreen: Green, TargetBlue: Blue} {
		ch, ok := target.Channel()
		if !ok || ch != want {
			t.Errorf("%v.Channel(): got (%v, %v), want (%v, true)", target, ch, ok, want)
		}
	}
	for _, target := range []Target{TargetNothing, TargetFrameRate} {
		if _, ok := target.Channel(); ok {
			t.Errorf("%v.Channel(): expected ok=false", target)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"ignore", "frame-rate"} {
		p, err := ParsePolicy(s)
		if err != nil {
			t.Errorf("ParsePolicy(%q): unexpected error: %v", s, err)
		}
		if string(p) != s {
			t.Errorf("ParsePolicy(%q): got %q", s, p)
		}
	}

	if _, err := ParsePolicy("framerate"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
