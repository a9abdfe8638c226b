package main

import (
	"github.com/spf13/cobra"

	"github.com/keagan/scenesplit/internal/config"
)

func addTuningFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()

	f.Float64("motion-threshold", d.Detection.MotionThreshold, "mean gray difference above which every frame is analyzed")
	f.Int("min-skip", d.Detection.MinSkip, "frames skipped after a high-motion frame")
	f.Int("max-skip", d.Detection.MaxSkip, "frames skipped after a low-motion frame")
	f.Float64("adaptive-threshold", d.Detection.AdaptiveThreshold, "score to rolling average ratio needed for a cut")
	f.Int("window-width", d.Detection.WindowWidth, "analyzed frames on each side of the rolling average")
	f.Float64("min-content-val", d.Detection.MinContentVal, "minimum content score for a cut")
	f.Int("downscale", d.Detection.Downscale, "shrink frames by this factor before scoring")
	f.Float64("min-duration", d.Split.MinDuration, "scenes shorter than this many seconds are merged into the previous one")
	f.String("output-dir", d.Split.OutputDir, "directory the scene files are written to (recreated on every run)")
	f.String("output-pattern", d.Split.OutputPattern, "file name pattern taking the scene number")
	f.Bool("no-progress", false, "hide the frame analysis progress bar")
}

// effectiveConfig returns a copy of the loaded config with every flag the
// user set applied on top.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := *config.FromContext(cmd.Context())
	f := cmd.Flags()

	floats := map[string]*float64{
		"motion-threshold":   &cfg.Detection.MotionThreshold,
		"adaptive-threshold": &cfg.Detection.AdaptiveThreshold,
		"min-content-val":    &cfg.Detection.MinContentVal,
		"min-duration":       &cfg.Split.MinDuration,
	}
	for name, dst := range floats {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetFloat64(name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	ints := map[string]*int{
		"min-skip":     &cfg.Detection.MinSkip,
		"max-skip":     &cfg.Detection.MaxSkip,
		"window-width": &cfg.Detection.WindowWidth,
		"downscale":    &cfg.Detection.Downscale,
	}
	for name, dst := range ints {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetInt(name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	strs := map[string]*string{
		"output-dir":     &cfg.Split.OutputDir,
		"output-pattern": &cfg.Split.OutputPattern,
	}
	for name, dst := range strs {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetString(name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	if f.Changed("no-progress") {
		hide, err := f.GetBool("no-progress")
		if err != nil {
			return nil, err
		}
		cfg.Progress = !hide
	}

	return &cfg, nil
}
