//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"

	"github.com/sweeney/rgbcal/internal/logic"
)

// RealLEDs drives LED lines on actual hardware.
type RealLEDs struct {
	chip  *gpiocdev.Chip
	lines [3]*gpiocdev.Line
}

// NewRealLEDs requests the red, green and blue lines as outputs, initially low.
func NewRealLEDs(chipName string, pins [3]int) (*RealLEDs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	l := &RealLEDs{chip: chip}
	for _, ch := range logic.Channels {
		line, err := chip.RequestLine(pins[ch], gpiocdev.AsOutput(0))
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", ch, pins[ch], err)
		}
		l.lines[ch] = line
	}
	return l, nil
}

// Set drives the line for ch.
func (l *RealLEDs) Set(ch logic.Channel, on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := l.lines[ch].SetValue(v); err != nil {
		return fmt.Errorf("set %s pin: %w", ch, err)
	}
	return nil
}

// Close drives every line low, then reconfigures it as an input so the pins
// are left in their boot default state.
func (l *RealLEDs) Close() error {
	var err error
	for _, ch := range logic.Channels {
		line := l.lines[ch]
		if line == nil {
			continue
		}
		if e := line.SetValue(0); e != nil {
			err = multierr.Append(err, fmt.Errorf("drive %s pin low: %w", ch, e))
		}
		if e := line.Reconfigure(gpiocdev.AsInput); e != nil {
			err = multierr.Append(err, fmt.Errorf("reconfigure %s pin: %w", ch, e))
		}
		if e := line.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("close %s pin: %w", ch, e))
		}
	}
	if l.chip != nil {
		if e := l.chip.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("close chip: %w", e))
		}
	}
	return err
}

// RealButtons reads button lines on actual hardware.
type RealButtons struct {
	chip *gpiocdev.Chip
	a    *gpiocdev.Line
	b    *gpiocdev.Line
}

// NewRealButtons requests both button lines as inputs with pull-up, so an
// open switch reads 1 and a pressed switch pulls the line to 0.
func NewRealButtons(chipName string, pinA, pinB int) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	a, err := chip.RequestLine(pinA, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button A pin %d: %w", pinA, err)
	}

	b, err := chip.RequestLine(pinB, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		a.Close()
		chip.Close()
		return nil, fmt.Errorf("request button B pin %d: %w", pinB, err)
	}

	return &RealButtons{chip: chip, a: a, b: b}, nil
}

// Read returns the pressed state of both buttons.
// Inverts raw GPIO: raw 0 = pressed.
func (r *RealButtons) Read() (bool, bool, error) {
	aRaw, err := r.a.Value()
	if err != nil {
		return false, false, fmt.Errorf("read button A: %w", err)
	}

	bRaw, err := r.b.Value()
	if err != nil {
		return false, false, fmt.Errorf("read button B: %w", err)
	}

	return aRaw == 0, bRaw == 0, nil
}

// Close releases GPIO resources.
func (r *RealButtons) Close() error {
	var err error
	if r.a != nil {
		err = multierr.Append(err, r.a.Close())
	}
	if r.b != nil {
		err = multierr.Append(err, r.b.Close())
	}
	if r.chip != nil {
		err = multierr.Append(err, r.chip.Close())
	}
	if err != nil {
		return fmt.Errorf("close buttons: %w", err)
	}
	return nil
}
