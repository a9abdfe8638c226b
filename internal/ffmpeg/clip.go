package ffmpeg

import (
	"context"
	"fmt"

	"github.com/keagan/scenesplit/pkg/util"
)

// ClipOptions defines clip extraction parameters. Start and End are seconds.
type ClipOptions struct {
	Start        float64
	End          float64
	Output       string
	ProgressFunc ProgressFunc
}

// ExtractClip copies the [Start, End] range of input into Output without
// re-encoding.
func (e *Executor) ExtractClip(ctx context.Context, input string, opts ClipOptions) error {
	if input == "" {
		return fmt.Errorf("input path is required")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Float64("start", opts.Start).
		Float64("end", opts.End).
		Msg("extracting clip")

	runOpts := RunOptions{
		Args:            ClipArgs(input, opts),
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Trace().Str("ffmpeg", line).Msg("clip extraction")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}

	e.logger.Debug().Str("output", opts.Output).Msg("clip extraction complete")
	return nil
}

// ClipArgs returns the ffmpeg arguments for a stream-copy extraction, without
// the flags Run adds to every invocation.
func ClipArgs(input string, opts ClipOptions) []string {
	return []string{
		"-i", input,
		"-ss", util.FormatSeconds(opts.Start),
		"-to", util.FormatSeconds(opts.End),
		"-c", "copy",
		opts.Output,
	}
}
