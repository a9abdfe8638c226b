package video

import (
	"io"
)

// MemorySource replays a fixed slice of frames. Used by tests and by callers
// that already hold decoded frames.
type MemorySource struct {
	frames []*Frame
	pos    int
	closed int
}

// NewMemorySource wraps frames in a Source.
func NewMemorySource(frames []*Frame) *MemorySource {
	return &MemorySource{frames: frames}
}

func (m *MemorySource) Next() (*Frame, error) {
	if m.pos >= len(m.frames) {
		return nil, io.EOF
	}
	f := m.frames[m.pos]
	m.pos++
	return f, nil
}

func (m *MemorySource) Grab() error {
	if m.pos >= len(m.frames) {
		return io.EOF
	}
	m.pos++
	return nil
}

func (m *MemorySource) Close() error {
	m.closed++
	return nil
}

// Position returns how many frames have been consumed.
func (m *MemorySource) Position() int { return m.pos }

// Closed reports how many times Close was called.
func (m *MemorySource) Closed() int { return m.closed }
