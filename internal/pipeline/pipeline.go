package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keagan/scenesplit/internal/config"
	"github.com/keagan/scenesplit/internal/detect"
	"github.com/keagan/scenesplit/internal/ffmpeg"
	"github.com/keagan/scenesplit/internal/motion"
	"github.com/keagan/scenesplit/internal/scene"
	"github.com/keagan/scenesplit/internal/split"
	"github.com/keagan/scenesplit/internal/video"
)

// Pipeline orchestrates probing, cut detection, merging and splitting
type Pipeline struct {
	logger zerolog.Logger
	cfg    *config.Config

	probe       func(ctx context.Context, input string) (*ffmpeg.VideoInfo, error)
	open        func(ctx context.Context, input string, info *ffmpeg.VideoInfo) (video.Source, error)
	extractor   split.Extractor
	newDetector func() scene.CutDetector
}

// New creates a pipeline backed by the ffmpeg binaries named in cfg
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	exec, err := ffmpeg.New(logger, ffmpeg.Options{
		FFmpegPath:  cfg.FFmpeg.BinaryPath,
		FFprobePath: cfg.FFmpeg.ProbePath,
		Threads:     cfg.FFmpeg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	logger.Debug().
		Str("ffmpeg", exec.FFmpegPath()).
		Str("ffprobe", exec.FFprobePath()).
		Msg("ffmpeg binaries resolved")

	p := &Pipeline{
		logger:    logger.With().Str("component", "pipeline").Logger(),
		cfg:       cfg,
		probe:     exec.ProbeVideo,
		extractor: exec,
		open: func(ctx context.Context, input string, info *ffmpeg.VideoInfo) (video.Source, error) {
			r, err := exec.OpenFrames(ctx, input, info)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	}
	p.newDetector = p.adaptiveDetector
	return p, nil
}

func (p *Pipeline) adaptiveDetector() scene.CutDetector {
	d := p.cfg.Detection
	cfg := detect.DefaultConfig()
	cfg.AdaptiveThreshold = d.AdaptiveThreshold
	cfg.WindowWidth = d.WindowWidth
	cfg.MinContentVal = d.MinContentVal
	cfg.Downscale = d.Downscale
	// Duration filtering happens in seconds after detection, so MinSceneLen
	// keeps its one-frame default.
	return detect.NewAdaptiveDetector(p.logger, cfg)
}

// Probe returns the metadata detection will use
func (p *Pipeline) Probe(ctx context.Context, input string) (*ffmpeg.VideoInfo, error) {
	if input == "" {
		return nil, fmt.Errorf("input path cannot be empty")
	}
	info, err := p.probe(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}
	return info, nil
}

// Detect finds the scenes of input and merges the short ones without writing
// any files
func (p *Pipeline) Detect(ctx context.Context, input string, opts Options) (*Result, error) {
	p.logger.Info().
		Str("input", input).
		Msg("starting scene detection")

	// Stage 1: Extract video metadata
	info, err := p.Probe(ctx, input)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Int("frames", info.FrameCount).
		Msg("video metadata extracted")

	if opts.OnProbe != nil {
		opts.OnProbe(info)
	}

	// Stage 2: Motion-adaptive cut detection
	det, err := p.detectCuts(ctx, input, info, opts)
	if err != nil {
		return nil, err
	}

	totalFrames := sceneFrames(info.FrameCount, det.Frames)
	if det.Frames != info.FrameCount {
		p.logger.Warn().
			Int("metadata_frames", info.FrameCount).
			Int("decoded_frames", det.Frames).
			Int("used_frames", totalFrames).
			Msg("decoded frame count differs from container metadata")
	}

	// Stage 3: Build and merge scenes
	scenes := det.Scenes(totalFrames, info.FPS)
	merged := scene.MergeShort(scenes, p.cfg.Split.MinDuration)

	p.logger.Info().
		Int("cuts", len(det.Cuts)).
		Int("scenes", len(scenes)).
		Int("merged", len(merged)).
		Float64("covered_seconds", scene.TotalDuration(merged)).
		Float64("min_duration", p.cfg.Split.MinDuration).
		Msg("scene detection complete")

	return &Result{
		Info:      info,
		Detection: det,
		Scenes:    scenes,
		Merged:    merged,
	}, nil
}

// Split runs Detect and writes one file per merged scene
func (p *Pipeline) Split(ctx context.Context, input string, opts Options) (*Result, error) {
	res, err := p.Detect(ctx, input, opts)
	if err != nil {
		return nil, err
	}

	splitter := split.New(p.logger, p.extractor, split.Options{
		OutputDir:  p.cfg.Split.OutputDir,
		Pattern:    p.cfg.Split.OutputPattern,
		Out:        opts.Out,
		OnProgress: opts.OnClipProgress,
	})

	outputs, err := splitter.Split(ctx, input, res.Merged)
	res.Outputs = outputs
	if err != nil {
		return res, err
	}
	return res, nil
}

func (p *Pipeline) detectCuts(ctx context.Context, input string, info *ffmpeg.VideoInfo, opts Options) (*scene.Detection, error) {
	src, err := p.open(ctx, input, info)
	if err != nil {
		return nil, fmt.Errorf("failed to open frames: %w", err)
	}

	d := p.cfg.Detection
	driver := &scene.Driver{
		Sampler: motion.NewSampler(motion.Policy{
			Threshold: d.MotionThreshold,
			MinSkip:   d.MinSkip,
			MaxSkip:   d.MaxSkip,
		}),
		Detector: p.newDetector(),
		Logger:   p.logger,
		OnFrame:  opts.OnFrame,
	}

	det, runErr := driver.Run(src)
	// The decoder's exit status is only known once it is closed.
	closeErr := src.Close()

	if runErr != nil {
		if closeErr != nil {
			p.logger.Warn().Err(closeErr).Msg("frame decoder exited with an error")
		}
		return nil, fmt.Errorf("failed to detect cuts: %w", runErr)
	}
	if closeErr != nil {
		if det.Empty() {
			return nil, fmt.Errorf("%w: %s: %w", ffmpeg.ErrSourceUnavailable, input, closeErr)
		}
		return nil, fmt.Errorf("frame decoder failed after %d frames: %w", det.Frames, closeErr)
	}
	return det, nil
}

// sceneFrames picks the frame count scenes are built from. The container's
// count wins unless it is missing or smaller than what was actually decoded.
func sceneFrames(metadata, decoded int) int {
	if metadata <= 0 || metadata < decoded {
		return decoded
	}
	return metadata
}
