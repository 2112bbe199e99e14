package lcd

import "sync"

// FakeDisplay is an in-memory Display for testing.
type FakeDisplay struct {
	mu     sync.Mutex
	lines  [Rows][]byte
	row    uint8
	prints int
	clears int
}

// NewFakeDisplay creates a blank FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{}
}

func (f *FakeDisplay) ClearDisplay() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = [Rows][]byte{}
	f.row = 0
	f.clears++
}

func (f *FakeDisplay) SetCursor(x, y uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(y) < Rows {
		f.row = y
	}
}

func (f *FakeDisplay) Print(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines[f.row] = append(f.lines[f.row], data...)
	f.prints++
}

// Lines returns the current text on each row.
func (f *FakeDisplay) Lines() [Rows]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [Rows]string
	for i, l := range f.lines {
		out[i] = string(l)
	}
	return out
}

// Clears returns how many times the display was cleared.
func (f *FakeDisplay) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}
