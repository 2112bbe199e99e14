package logic

import "time"

// FrameTickTime returns the duration of one Level unit of on/off time.
// One frame renders all 3 channels, each split into Levels ticks, and
// frameRate frames must fit in one second. Whole microseconds only.
// A non-positive frame rate is coerced to 1 to avoid division by zero.
func FrameTickTime(frameRate FrameRate) time.Duration {
	if frameRate <= 0 {
		frameRate = 1
	}
	us := 1_000_000 / (3 * int64(frameRate) * Levels)
	return time.Duration(us) * time.Microsecond
}

// FrameRateStep is the frame rate increment per knob level.
const FrameRateStep = 10

// FrameRateFor maps a knob level to a frame rate: level 0 is 10 fps,
// MaxLevel is 160 fps.
func FrameRateFor(level Level) FrameRate {
	return FrameRate((int(ClampLevel(int(level))) + 1) * FrameRateStep)
}
