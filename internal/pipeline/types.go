package pipeline

import (
	"io"

	"github.com/keagan/scenesplit/internal/ffmpeg"
	"github.com/keagan/scenesplit/internal/scene"
)

// Result describes one run over a video
type Result struct {
	Info      *ffmpeg.VideoInfo
	Detection *scene.Detection
	// Scenes are the raw scenes between detected cuts
	Scenes []scene.Scene
	// Merged are the scenes after short ones were folded into their predecessor
	Merged []scene.Scene
	// Outputs lists the files written by Split, in scene order
	Outputs []string
}

// Options hooks into a run
type Options struct {
	// OnProbe is called once metadata is known, before decoding starts
	OnProbe func(info *ffmpeg.VideoInfo)
	// OnFrame is called with the frame index reached after each analyzed frame
	OnFrame func(index int)
	// Out receives the per-scene progress lines written while splitting
	Out io.Writer
	// OnClipProgress receives ffmpeg progress while scene n is extracted
	OnClipProgress func(n int, p *ffmpeg.Progress)
}
