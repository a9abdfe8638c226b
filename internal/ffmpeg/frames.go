package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/keagan/scenesplit/internal/video"
)

// FrameReader streams decoded RGB24 frames from an ffmpeg subprocess. It
// implements video.Source.
type FrameReader struct {
	logger zerolog.Logger
	cmd    *exec.Cmd
	stdout io.ReadCloser
	r      *bufio.Reader
	stderr *tailLines
	frame  *video.Frame

	read   int
	eof    bool
	closed bool
}

// OpenFrames starts decoding the first video stream of input at the
// dimensions reported by info. The returned reader must be closed.
func (e *Executor) OpenFrames(ctx context.Context, input string, info *VideoInfo) (*FrameReader, error) {
	if info == nil || info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("%w: %s: unknown frame size", ErrSourceUnavailable, input)
	}

	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}
	if e.threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", e.threads))
	}
	args = append(args,
		"-noautorotate",
		"-i", input,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("starting frame decoder")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	stderr := newTailLines(stderrTailLines)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start decoder: %w", ErrSourceUnavailable, err)
	}

	size := video.FrameSize(info.Width, info.Height)
	return &FrameReader{
		logger: e.logger,
		cmd:    cmd,
		stdout: stdout,
		r:      bufio.NewReaderSize(stdout, size),
		stderr: stderr,
		frame:  video.NewFrame(info.Width, info.Height),
	}, nil
}

// Next returns the next frame. The frame's pixel buffer is reused by the
// following Next or Grab.
func (r *FrameReader) Next() (*video.Frame, error) {
	if err := r.fill(); err != nil {
		return nil, err
	}
	return r.frame, nil
}

// Grab consumes the next frame without handing it out.
func (r *FrameReader) Grab() error {
	return r.fill()
}

func (r *FrameReader) fill() error {
	if r.eof || r.closed {
		return io.EOF
	}
	_, err := io.ReadFull(r.r, r.frame.Pix)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		// A truncated trailing frame counts as end of stream.
		r.eof = true
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("failed to read frame %d: %w", r.read, err)
	}
	r.read++
	return nil
}

// Frames returns how many whole frames have been read so far.
func (r *FrameReader) Frames() int { return r.read }

// Close stops the decoder. Safe to call more than once.
func (r *FrameReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	killed := false
	if !r.eof && r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
		killed = true
	}
	_ = r.stdout.Close()

	err := r.cmd.Wait()
	if err != nil && !killed {
		return &ExecError{Tool: "ffmpeg", Args: r.cmd.Args[1:], Stderr: r.stderr.String(), Err: err}
	}

	r.logger.Debug().Int("frames", r.read).Msg("frame decoder closed")
	return nil
}
