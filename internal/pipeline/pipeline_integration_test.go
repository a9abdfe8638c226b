package pipeline_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/keagan/scenesplit/internal/config"
	"github.com/keagan/scenesplit/internal/pipeline"
)

// local helper (cannot use unexported ones from ffmpeg package)
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

// makeThreeSceneVideo writes 10 seconds at 30 fps: 3s red, 4s blue, 3s yellow.
func makeThreeSceneVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "three_scenes.mp4")
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "color=c=red:s=160x120:r=30:d=3",
		"-f", "lavfi", "-i", "color=c=blue:s=160x120:r=30:d=4",
		"-f", "lavfi", "-i", "color=c=yellow:s=160x120:r=30:d=3",
		"-filter_complex", "[0:v][1:v][2:v]concat=n=3:v=1[v]",
		"-map", "[v]",
		"-c:v", "mpeg4", "-q:v", "2", "-g", "30",
		"-y", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not generate test video: %v\n%s", err, out)
	}
	return path
}

func TestIntegration_SplitThreeScenes(t *testing.T) {
	skipIfNoFFmpeg(t)

	input := makeThreeSceneVideo(t)

	cfg := config.Default()
	cfg.Detection.MaxSkip = 0
	cfg.Split.MinDuration = 2
	cfg.Split.OutputDir = filepath.Join(t.TempDir(), "scenes")

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).With().Str("test", "integration_split").Logger()

	p, err := pipeline.New(logger, cfg)
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}

	res, err := p.Split(context.Background(), input, pipeline.Options{})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if res.Info.FrameCount != 300 {
		t.Errorf("expected 300 frames, got %d", res.Info.FrameCount)
	}
	if len(res.Merged) != 3 {
		t.Fatalf("expected 3 scenes, got %d: %v", len(res.Merged), res.Merged)
	}

	wantStarts := []float64{0, 3, 7}
	for i, s := range res.Merged {
		if d := s.Start - wantStarts[i]; d < -0.05 || d > 0.05 {
			t.Errorf("scene %d starts at %.3f, want about %.1f", i+1, s.Start, wantStarts[i])
		}
	}

	for _, path := range res.Outputs {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected output %s: %v", path, err)
		}
	}
	t.Logf("cuts=%v scenes=%v", res.Detection.Cuts, res.Merged)
}
