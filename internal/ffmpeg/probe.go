package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/keagan/scenesplit/pkg/util"
)

// ProbeVideo extracts metadata from a video file. Any failure to read the
// container is reported as ErrSourceUnavailable.
func (e *Executor) ProbeVideo(ctx context.Context, filePath string) (*VideoInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		execErr := &ExecError{Tool: "ffprobe", Args: args, Stderr: stderr.String(), Err: err}
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, filePath, execErr)
	}

	info, err := parseProbeOutput(filePath, stdout.Bytes())
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("input", filePath).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Int("frames", info.FrameCount).
		Bool("frames_estimated", info.FrameCountEstimated).
		Msg("probed video")

	return info, nil
}

func parseProbeOutput(filePath string, output []byte) (*VideoInfo, error) {
	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{
		FilePath: filePath,
	}

	// Parse duration
	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(dur * float64(time.Second))
	}

	var videoFound bool
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if videoFound {
				continue
			}
			videoFound = true
			info.Width = stream.Width
			info.Height = stream.Height
			info.VideoCodec = stream.CodecName

			info.FPS = util.ParseFrameRate(stream.AvgFrameRate)
			if info.FPS == 0 {
				info.FPS = util.ParseFrameRate(stream.RFrameRate)
			}

			info.FrameCount = util.ParseCount(stream.NbFrames)
			if info.FrameCount == 0 {
				seconds := info.Duration.Seconds()
				if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
					seconds = d
				}
				info.FrameCount = util.FramesForDuration(seconds, info.FPS)
				info.FrameCountEstimated = true
			}
		case "audio":
			info.HasAudio = true
			info.AudioCodec = stream.CodecName
		}
	}

	if !videoFound {
		return nil, fmt.Errorf("%w: %s: no video stream", ErrSourceUnavailable, filePath)
	}

	return info, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}
