// Package ui polls the knob and buttons and writes level changes into the
// shared state.
package ui

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/rgbcal/internal/clock"
	"github.com/sweeney/rgbcal/internal/gpio"
	"github.com/sweeney/rgbcal/internal/logic"
	"github.com/sweeney/rgbcal/internal/state"
)

// DefaultPeriod is the time between polls.
const DefaultPeriod = 50 * time.Millisecond

// Measurer produces a level from the knob.
type Measurer interface {
	Measure(ctx context.Context) (logic.Level, error)
}

// Config holds the input loop settings. Zero fields take defaults.
type Config struct {
	Period    time.Duration
	Policy    logic.Policy
	FrameRate logic.FrameRate
}

// Loop is the input state machine. It owns the knob and buttons and keeps
// a private shadow of the status so it only touches the shared state and
// reporters when something changed.
type Loop struct {
	knob     Measurer
	buttons  gpio.Buttons
	shared   *state.Shared
	reporter Reporter
	sleeper  clock.Sleeper

	period time.Duration
	policy logic.Policy
	shadow logic.Status
}

// New creates a Loop. The shadow starts at max brightness and cfg.FrameRate
// (or the default frame rate).
func New(knob Measurer, buttons gpio.Buttons, shared *state.Shared, reporter Reporter, sleeper clock.Sleeper, cfg Config) *Loop {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Policy == "" {
		cfg.Policy = logic.PolicyIgnore
	}
	shadow := logic.DefaultStatus()
	if cfg.FrameRate > 0 {
		shadow.FrameRate = cfg.FrameRate
	}
	return &Loop{
		knob:     knob,
		buttons:  buttons,
		shared:   shared,
		reporter: reporter,
		sleeper:  sleeper,
		period:   cfg.Period,
		policy:   cfg.Policy,
		shadow:   shadow,
	}
}

// Status returns the loop's shadow status.
func (l *Loop) Status() logic.Status {
	return l.shadow
}

// Run performs Start and then polls every period until ctx is done.
// It only returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Start(ctx); err != nil {
		return err
	}
	for {
		if err := l.Step(ctx); err != nil {
			return err
		}
		if err := l.sleeper.Sleep(ctx, l.period); err != nil {
			return err
		}
	}
}

// Start applies one knob reading to every channel, pushes the result to the
// shared state and reports it. On a knob error the defaults are pushed.
func (l *Loop) Start(ctx context.Context) error {
	level, err := l.knob.Measure(ctx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		log.Printf("knob read error: %v (keeping defaults)", err)
	default:
		for _, ch := range logic.Channels {
			l.shadow.Levels[ch] = level
		}
	}

	l.pushLevels()
	l.shared.SetFrameRate(func(fr *logic.FrameRate) {
		*fr = l.shadow.FrameRate
	})
	l.reporter.Report(l.shadow)
	return nil
}

// Step polls the knob and buttons once and applies the chord.
// Read failures are logged and the poll is skipped.
func (l *Loop) Step(ctx context.Context) error {
	level, err := l.knob.Measure(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		log.Printf("knob read error: %v", err)
		return nil
	}

	a, b, err := l.buttons.Read()
	if err != nil {
		log.Printf("button read error: %v", err)
		return nil
	}

	target := logic.Dispatch(logic.ChordOf(a, b), l.policy)
	if ch, ok := target.Channel(); ok {
		l.updateChannel(ch, level)
	} else if target == logic.TargetFrameRate {
		l.updateFrameRate(logic.FrameRateFor(level))
	}
	return nil
}

func (l *Loop) updateChannel(ch logic.Channel, level logic.Level) {
	if l.shadow.Levels[ch] == level {
		return
	}
	l.shadow.Levels[ch] = level
	l.reporter.Report(l.shadow)
	l.pushLevels()
}

func (l *Loop) updateFrameRate(fr logic.FrameRate) {
	if l.shadow.FrameRate == fr {
		return
	}
	l.shadow.FrameRate = fr
	l.reporter.Report(l.shadow)
	l.shared.SetFrameRate(func(shared *logic.FrameRate) {
		*shared = fr
	})
}

func (l *Loop) pushLevels() {
	levels := l.shadow.Levels
	l.shared.SetLevels(func(shared *logic.Triple) {
		*shared = levels
	})
}
