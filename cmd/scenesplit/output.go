package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/keagan/scenesplit/internal/ffmpeg"
	"github.com/keagan/scenesplit/internal/scene"
)

func writeScenes(w io.Writer, format string, scenes []scene.Scene) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if scenes == nil {
			scenes = []scene.Scene{}
		}
		return enc.Encode(scenes)
	case "yaml":
		return yaml.NewEncoder(w).Encode(scenes)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCENE\tSTART\tEND\tDURATION")
		for i, s := range scenes {
			fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\n", i+1, s.Start, s.End, s.Duration())
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeInfo(w io.Writer, info *ffmpeg.VideoInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "file\t%s\n", info.FilePath)
	fmt.Fprintf(tw, "resolution\t%dx%d\n", info.Width, info.Height)
	fmt.Fprintf(tw, "fps\t%.3f\n", info.FPS)
	if info.FrameCountEstimated {
		fmt.Fprintf(tw, "frames\t%d (estimated)\n", info.FrameCount)
	} else {
		fmt.Fprintf(tw, "frames\t%d\n", info.FrameCount)
	}
	fmt.Fprintf(tw, "duration\t%s\n", info.Duration)
	fmt.Fprintf(tw, "codec\t%s\n", info.VideoCodec)
	tw.Flush()
}

// frameProgress drives a progress bar from the pipeline's frame callbacks.
// A disabled one ignores every call.
type frameProgress struct {
	enabled bool
	out     io.Writer
	total   int
	bar     *progressbar.ProgressBar
}

func newFrameProgress(enabled bool, out io.Writer) *frameProgress {
	return &frameProgress{enabled: enabled, out: out}
}

func (p *frameProgress) start(info *ffmpeg.VideoInfo) {
	if !p.enabled {
		return
	}
	p.total = info.FrameCount
	limit := p.total
	if limit <= 0 {
		limit = -1
	}
	p.bar = progressbar.NewOptions(limit,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Analyzing frames"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *frameProgress) update(index int) {
	if p.bar == nil {
		return
	}
	if p.total > 0 && index > p.total {
		index = p.total
	}
	_ = p.bar.Set(index)
}

func (p *frameProgress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

// clipProgress shows one spinner per scene while it is being extracted.
type clipProgress struct {
	enabled bool
	out     io.Writer
	scene   int
	bar     *progressbar.ProgressBar
}

func newClipProgress(enabled bool, out io.Writer) *clipProgress {
	return &clipProgress{enabled: enabled, out: out}
}

func (c *clipProgress) update(n int, p *ffmpeg.Progress) {
	if !c.enabled {
		return
	}
	if c.bar == nil || n != c.scene {
		c.finish()
		c.scene = n
		c.bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(c.out),
			progressbar.OptionSetDescription(fmt.Sprintf("Scene %d", n)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = c.bar.Set(p.Frame)
}

func (c *clipProgress) finish() {
	if c.bar == nil {
		return
	}
	_ = c.bar.Finish()
	c.bar = nil
}
