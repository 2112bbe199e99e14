package knob

import (
	"context"
	"errors"
)

// FakeSampler is a test double that returns scripted raw readings.
type FakeSampler struct {
	// Samples contains scripted raw values to return.
	// Each call to Sample() consumes the next value.
	Samples []int16

	// index tracks current position in Samples
	index int

	// Calibrations counts calls to Calibrate.
	Calibrations int

	// CalibrateError, if set, will be returned by Calibrate.
	CalibrateError error

	// SampleError, if set, will be returned by Sample.
	SampleError error
}

// NewFakeSampler creates a FakeSampler with the given raw values.
func NewFakeSampler(samples ...int16) *FakeSampler {
	return &FakeSampler{Samples: samples}
}

// Calibrate records the call.
func (f *FakeSampler) Calibrate(ctx context.Context) error {
	if f.CalibrateError != nil {
		return f.CalibrateError
	}
	f.Calibrations++
	return nil
}

// Sample returns the next scripted value.
// If samples are exhausted, returns the last value repeatedly.
func (f *FakeSampler) Sample(ctx context.Context) (int16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.SampleError != nil {
		return 0, f.SampleError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	v := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return v, nil
}

// Set replaces the script with a single value returned from now on.
func (f *FakeSampler) Set(v int16) {
	f.Samples = []int16{v}
	f.index = 0
}
