// Package i2cbus adapts the Linux I2C device interface to the bus interface
// used by the tinygo drivers, so those drivers run on a Linux host.
package i2cbus

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/exp/io/i2c"
	"golang.org/x/exp/io/i2c/driver"
	"tinygo.org/x/drivers"
)

// DefaultDevice is the user-facing I2C bus on a Raspberry Pi.
const DefaultDevice = "/dev/i2c-1"

var _ drivers.I2C = (*Bus)(nil)

// Bus is an I2C bus shared by several peripherals. It opens one connection
// per target address on first use. Safe for concurrent use.
type Bus struct {
	opener driver.Opener

	mu    sync.Mutex
	conns map[uint16]driver.Conn
}

// New creates a Bus on top of opener.
func New(opener driver.Opener) *Bus {
	return &Bus{
		opener: opener,
		conns:  make(map[uint16]driver.Conn),
	}
}

// Open creates a Bus on a Linux I2C character device such as /dev/i2c-1.
func Open(dev string) *Bus {
	return New(&i2c.Devfs{Dev: dev})
}

// Tx writes w to and then reads len(r) bytes from the device at addr.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, ok := b.conns[addr]
	if !ok {
		var err error
		conn, err = b.opener.Open(int(addr), false)
		if err != nil {
			return fmt.Errorf("open i2c address %#02x: %w", addr, err)
		}
		b.conns[addr] = conn
	}

	if err := conn.Tx(w, r); err != nil {
		return fmt.Errorf("i2c tx %#02x: %w", addr, err)
	}
	return nil
}

// Close closes every open connection.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	for addr, conn := range b.conns {
		if e := conn.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("close i2c address %#02x: %w", addr, e))
		}
		delete(b.conns, addr)
	}
	return err
}
