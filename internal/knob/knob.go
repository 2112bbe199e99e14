// Package knob turns potentiometer readings into brightness levels.
package knob

import (
	"context"
	"fmt"
	"math"

	"github.com/sweeney/rgbcal/internal/logic"
)

// Sampler is an analog input channel.
type Sampler interface {
	// Calibrate prepares the converter. Called once before the first Sample.
	Calibrate(ctx context.Context) error

	// Sample blocks until one raw conversion is available.
	Sample(ctx context.Context) (int16, error)
}

// FullScale is the raw reading that maps to a ratio of 1.0.
const FullScale = 10000.0

// MaxRaw is the largest meaningful raw reading.
const MaxRaw = 0x7fff

// Knob wraps an analog input channel. It owns the Sampler exclusively.
type Knob struct {
	adc Sampler
}

// New calibrates adc and returns a Knob reading from it.
func New(ctx context.Context, adc Sampler) (*Knob, error) {
	if err := adc.Calibrate(ctx); err != nil {
		return nil, fmt.Errorf("calibrate adc: %w", err)
	}
	return &Knob{adc: adc}, nil
}

// Measure takes one fresh sample and returns it as a level.
func (k *Knob) Measure(ctx context.Context) (logic.Level, error) {
	raw, err := k.adc.Sample(ctx)
	if err != nil {
		return 0, fmt.Errorf("sample adc: %w", err)
	}
	return Quantize(raw), nil
}

// Quantize maps a raw reading to a level. The +2/-2 offsets push the
// potentiometer's dead zones at both mechanical ends onto level 0 and
// MaxLevel, so the extremes saturate without precise alignment.
func Quantize(raw int16) logic.Level {
	r := logic.Clamp(int32(raw), 0, MaxRaw)
	ratio := float32(r) / FullScale
	v := logic.Clamp((logic.Levels+2)*ratio-2, 0, float32(logic.MaxLevel))
	return logic.Level(math.Floor(float64(v)))
}
