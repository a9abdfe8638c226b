// Package split writes one stream-copied media file per scene.
package split

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/keagan/scenesplit/internal/ffmpeg"
	"github.com/keagan/scenesplit/internal/scene"
	"github.com/keagan/scenesplit/pkg/util"
)

// DefaultPattern names output files Scene_1.mp4, Scene_2.mp4, ...
const DefaultPattern = "Scene_%d.mp4"

// Extractor copies a time range of a video into a new file.
type Extractor interface {
	ExtractClip(ctx context.Context, input string, opts ffmpeg.ClipOptions) error
}

// Splitter writes each scene of a video into OutputDir.
type Splitter struct {
	extractor Extractor
	logger    zerolog.Logger
	outputDir string
	pattern   string
	out       io.Writer
	progress  func(n int, p *ffmpeg.Progress)
}

// Options configures a Splitter.
type Options struct {
	OutputDir string
	// Pattern is a fmt pattern taking the 1-based scene number.
	Pattern string
	// Out receives the human-readable progress lines.
	Out io.Writer
	// OnProgress, when set, receives ffmpeg's progress reports for the
	// 1-based scene n being extracted.
	OnProgress func(n int, p *ffmpeg.Progress)
}

// New creates a splitter that runs extractions through ext.
func New(logger zerolog.Logger, ext Extractor, opts Options) *Splitter {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Splitter{
		extractor: ext,
		logger:    logger.With().Str("component", "splitter").Logger(),
		outputDir: opts.OutputDir,
		pattern:   pattern,
		out:       out,
		progress:  opts.OnProgress,
	}
}

// OutputPath returns the file written for the 1-based scene n.
func (s *Splitter) OutputPath(n int) string {
	return filepath.Join(s.outputDir, fmt.Sprintf(s.pattern, n))
}

func (s *Splitter) progressFor(n int) ffmpeg.ProgressFunc {
	if s.progress == nil {
		return nil
	}
	return func(p *ffmpeg.Progress) { s.progress(n, p) }
}

// Split recreates the output directory and extracts every scene in order.
// The first failed extraction stops the run.
func (s *Splitter) Split(ctx context.Context, input string, scenes []scene.Scene) ([]string, error) {
	if err := util.ResetDir(s.outputDir); err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	outputs := make([]string, 0, len(scenes))
	for i, sc := range scenes {
		n := i + 1
		output := s.OutputPath(n)

		fmt.Fprintf(s.out, "Splitting Scene %d: %.2fs → %.2fs\n", n, sc.Start, sc.End)

		err := s.extractor.ExtractClip(ctx, input, ffmpeg.ClipOptions{
			Start:        sc.Start,
			End:          sc.End,
			Output:       output,
			ProgressFunc: s.progressFor(n),
		})
		if err != nil {
			return outputs, fmt.Errorf("split scene %d: %w", n, err)
		}
		outputs = append(outputs, output)
	}

	fmt.Fprintln(s.out, "All scenes have been split and saved to:", s.outputDir)
	s.logger.Info().
		Int("scenes", len(outputs)).
		Str("output_dir", s.outputDir).
		Msg("split complete")
	return outputs, nil
}
