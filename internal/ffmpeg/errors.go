package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrSourceUnavailable is returned when the input cannot be opened or holds no
// decodable video stream.
var ErrSourceUnavailable = errors.New("video source unavailable")

// ExecError describes a failed ffmpeg or ffprobe invocation.
type ExecError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s execution failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s execution failed: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// tailLines keeps the last few lines written to it.
type tailLines struct {
	mu    sync.Mutex
	max   int
	lines []string
	// partial holds text written after the last newline.
	partial []byte
}

func newTailLines(n int) *tailLines {
	return &tailLines{max: n}
}

func (t *tailLines) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addLocked(line)
}

func (t *tailLines) addLocked(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

// Write splits p into lines. Text after the last newline is held back until
// a later write completes it.
func (t *tailLines) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.partial = append(t.partial, p...)
	for {
		i := bytes.IndexByte(t.partial, '\n')
		if i < 0 {
			break
		}
		t.addLocked(string(t.partial[:i]))
		t.partial = t.partial[i+1:]
	}
	return len(p), nil
}

// String returns the kept lines, including an unterminated last line.
func (t *tailLines) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if last := strings.TrimSpace(string(t.partial)); last != "" {
		lines = append(slices.Clip(lines), last)
		if len(lines) > t.max {
			lines = lines[len(lines)-t.max:]
		}
	}
	return strings.Join(lines, "\n")
}
