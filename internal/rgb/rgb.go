// Package rgb renders channel levels as software PWM on three LED lines.
package rgb

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/rgbcal/internal/clock"
	"github.com/sweeney/rgbcal/internal/gpio"
	"github.com/sweeney/rgbcal/internal/logic"
	"github.com/sweeney/rgbcal/internal/state"
)

// Renderer owns the LED lines and bit-bangs each channel's duty cycle.
type Renderer struct {
	leds    gpio.LEDs
	shared  *state.Shared
	sleeper clock.Sleeper

	// Shadow copies so the shared lock is taken once per frame.
	levels    logic.Triple
	frameRate logic.FrameRate
	tickTime  time.Duration

	failing bool
}

// New creates a Renderer drawing from shared at its current frame rate.
func New(leds gpio.LEDs, shared *state.Shared, sleeper clock.Sleeper) *Renderer {
	fr := shared.FrameRate()
	return &Renderer{
		leds:      leds,
		shared:    shared,
		sleeper:   sleeper,
		frameRate: fr,
		tickTime:  logic.FrameTickTime(fr),
	}
}

// TickTime returns the current duration of one level unit.
func (r *Renderer) TickTime() time.Duration {
	return r.tickTime
}

// Run renders frames until ctx is done and returns ctx.Err().
// Every line is driven low on the way out.
func (r *Renderer) Run(ctx context.Context) error {
	defer r.allOff()
	for {
		if err := r.Frame(ctx); err != nil {
			return err
		}
	}
}

// Frame reads the shared state once, then renders red, green and blue in
// that order. A frame lasts 3 * Levels * tick time regardless of levels.
func (r *Renderer) Frame(ctx context.Context) error {
	snap := r.shared.Snapshot()
	r.levels = snap.Levels
	if snap.FrameRate != r.frameRate {
		r.frameRate = snap.FrameRate
		r.tickTime = logic.FrameTickTime(snap.FrameRate)
	}

	for _, ch := range logic.Channels {
		if err := r.step(ctx, ch); err != nil {
			return err
		}
	}
	return nil
}

// step drives ch for one channel period: on for level ticks, then off for
// the remaining Levels-level ticks.
func (r *Renderer) step(ctx context.Context, ch logic.Channel) error {
	level := r.levels[ch]
	if level > 0 {
		r.set(ch, true)
		err := r.sleeper.Sleep(ctx, time.Duration(level)*r.tickTime)
		r.set(ch, false)
		if err != nil {
			return err
		}
	}
	if off := logic.Levels - level; off > 0 {
		if err := r.sleeper.Sleep(ctx, time.Duration(off)*r.tickTime); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) set(ch logic.Channel, on bool) {
	err := r.leds.Set(ch, on)
	if err == nil {
		if r.failing {
			log.Printf("led write recovered")
			r.failing = false
		}
		return
	}
	// Only the first failure of a run is logged; this loop runs every tick.
	if !r.failing {
		log.Printf("led write error: %v", err)
		r.failing = true
	}
}

func (r *Renderer) allOff() {
	for _, ch := range logic.Channels {
		r.set(ch, false)
	}
}
