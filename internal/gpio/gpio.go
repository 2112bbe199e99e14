// Package gpio drives the LED lines and reads the two buttons.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/rgbcal/internal/logic"

// LEDs drives the three LED output lines.
type LEDs interface {
	// Set drives the line for ch high (on) or low.
	Set(ch logic.Channel, on bool) error

	// Close drives every line low and releases GPIO resources.
	Close() error
}

// Buttons reads the two user buttons.
type Buttons interface {
	// Read returns whether A and B are currently pressed.
	// The raw lines are active-low: raw 0 = pressed.
	Read() (aPressed, bPressed bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Default pin assignments (BCM numbering).
const (
	DefaultPinRed     = 17
	DefaultPinGreen   = 27
	DefaultPinBlue    = 22
	DefaultPinButtonA = 5
	DefaultPinButtonB = 6
)
