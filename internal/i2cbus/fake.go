package i2cbus

import (
	"errors"
	"sync"

	"golang.org/x/exp/io/i2c/driver"
)

// FakeOpener is a driver.Opener whose connections are served by Handler.
type FakeOpener struct {
	mu sync.Mutex

	// Handler answers every transaction. It may fill r.
	Handler func(addr int, w, r []byte) error

	// Opened counts Open calls per address.
	Opened map[int]int

	// Closed counts Close calls per address.
	Closed map[int]int

	// OpenError, if set, is returned by Open.
	OpenError error
}

// Open returns a connection bound to addr.
func (f *FakeOpener) Open(addr int, tenbit bool) (driver.Conn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OpenError != nil {
		return nil, f.OpenError
	}
	if tenbit {
		return nil, errors.New("ten-bit addressing not supported")
	}
	if f.Opened == nil {
		f.Opened = make(map[int]int)
	}
	f.Opened[addr]++
	return &fakeConn{f: f, addr: addr}, nil
}

type fakeConn struct {
	f    *FakeOpener
	addr int
}

func (c *fakeConn) Tx(w, r []byte) error {
	if c.f.Handler == nil {
		return nil
	}
	return c.f.Handler(c.addr, w, r)
}

func (c *fakeConn) Close() error {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	if c.f.Closed == nil {
		c.f.Closed = make(map[int]int)
	}
	c.f.Closed[c.addr]++
	return nil
}
