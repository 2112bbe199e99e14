// Package lcd mirrors the controller status on an HD44780 16x2 character
// display behind an I2C backpack.
//
// The input loop must never wait on the display, so Reporter hands
// messages to a buffered channel and a Handler goroutine drains it:
//
//	messages := make(chan lcd.Message, 4)
//	reporter := lcd.NewReporter(messages)
//	handler := lcd.NewHandler(device, messages)
//	go handler.Run(ctx)
package lcd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/sweeney/rgbcal/internal/logic"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

const (
	// DefaultAddress is the common PCF8574 backpack address.
	DefaultAddress = 0x27

	Columns = 16
	Rows    = 2
)

// Display is the subset of the HD44780 driver used here.
type Display interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
}

// NewHD44780 configures a 16x2 display on bus at addr.
func NewHD44780(bus drivers.I2C, addr uint8) (*hd44780i2c.Device, error) {
	dev := hd44780i2c.New(bus, addr)
	if err := dev.Configure(hd44780i2c.Config{Width: Columns, Height: Rows}); err != nil {
		return nil, fmt.Errorf("configure hd44780 at 0x%02x: %w", addr, err)
	}
	return &dev, nil
}

// Message represents a two-line LCD message.
type Message struct {
	Line1 []byte
	Line2 []byte
}

// Format renders s as the two display lines, e.g. "R15 G15 B 5" and "fps 100".
// The returned slices alias buf.
func Format(buf []byte, s logic.Status) Message {
	buf = buf[:0]
	for i, ch := range logic.Channels {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, "RGB"[ch])
		l := s.Levels[ch]
		if l < 10 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(l), 10)
	}
	n := len(buf)
	buf = append(buf, "fps "...)
	buf = strconv.AppendInt(buf, int64(s.FrameRate), 10)
	return Message{Line1: buf[:n:n], Line2: buf[n:]}
}

// Reporter formats status changes into messages for a Handler. When the
// channel is full the update is dropped and counted.
type Reporter struct {
	out chan<- Message

	mu      sync.Mutex
	dropped int
}

// NewReporter creates a Reporter sending on out.
func NewReporter(out chan<- Message) *Reporter {
	return &Reporter{out: out}
}

// Report implements ui.Reporter.
func (r *Reporter) Report(s logic.Status) {
	// Each message owns its bytes; the handler may still be printing the last one.
	msg := Format(make([]byte, 0, 2*Columns), s)
	select {
	case r.out <- msg:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// Dropped returns how many updates were discarded because the handler was busy.
func (r *Reporter) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Handler processes LCD messages from a channel.
type Handler struct {
	display  Display
	messages <-chan Message
}

// NewHandler creates a new 16x2 LCD message handler.
func NewHandler(display Display, messages <-chan Message) *Handler {
	return &Handler{display: display, messages: messages}
}

// Run prints messages until ctx is done or the channel is closed.
func (h *Handler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-h.messages:
			if !ok {
				log.Printf("lcd: message channel closed")
				<-ctx.Done()
				return ctx.Err()
			}
			h.show(msg)
		}
	}
}

func (h *Handler) show(msg Message) {
	h.display.ClearDisplay()
	h.display.SetCursor(0, 0)
	h.display.Print(truncate(msg.Line1))
	h.display.SetCursor(0, 1)
	h.display.Print(truncate(msg.Line2))
}

func truncate(b []byte) []byte {
	if len(b) > Columns {
		return b[:Columns]
	}
	return b
}
