package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keagan/scenesplit/internal/config"
	"github.com/keagan/scenesplit/internal/ffmpeg"
	"github.com/keagan/scenesplit/internal/scene"
)

func parsedCommand(t *testing.T, cfg *config.Config, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addTuningFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	cmd.SetContext(config.WithConfig(context.Background(), cfg))
	return cmd
}

func TestEffectiveConfigAppliesOnlyChangedFlags(t *testing.T) {
	loaded := config.Default()
	loaded.Detection.MaxSkip = 9
	loaded.Split.OutputDir = "from-file"

	cmd := parsedCommand(t, loaded, "--min-duration=2.5", "--window-width", "6", "--no-progress")
	cfg, err := effectiveConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Split.MinDuration)
	assert.Equal(t, 6, cfg.Detection.WindowWidth)
	assert.False(t, cfg.Progress)

	// untouched flags keep the loaded values, not the flag defaults
	assert.Equal(t, 9, cfg.Detection.MaxSkip)
	assert.Equal(t, "from-file", cfg.Split.OutputDir)

	// the loaded config itself is not modified
	assert.Equal(t, 5.0, loaded.Split.MinDuration)
	assert.True(t, loaded.Progress)
}

func TestEffectiveConfigNoFlags(t *testing.T) {
	loaded := config.Default()
	cfg, err := effectiveConfig(parsedCommand(t, loaded))
	require.NoError(t, err)
	assert.Equal(t, *loaded, *cfg)
}

func TestWriteScenes(t *testing.T) {
	scenes := []scene.Scene{{Start: 0, End: 3}, {Start: 3, End: 10}}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeScenes(&buf, "table", scenes))
		assert.Contains(t, buf.String(), "SCENE")
		assert.Contains(t, buf.String(), "3.000")
		assert.Contains(t, buf.String(), "7.000")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeScenes(&buf, "json", scenes))
		var got []scene.Scene
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, scenes, got)
	})

	t.Run("json empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeScenes(&buf, "json", nil))
		assert.JSONEq(t, "[]", buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeScenes(&buf, "yaml", scenes))
		assert.Contains(t, buf.String(), "end: 10")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeScenes(&bytes.Buffer{}, "xml", scenes))
	})
}

func TestWriteConfigFile(t *testing.T) {
	cfg := config.Default()
	cfg.Detection.MaxSkip = 2
	path := filepath.Join(t.TempDir(), "scenesplit.yaml")

	require.NoError(t, writeConfigFile(cfg, path, false))
	assert.FileExists(t, path)

	err := writeConfigFile(cfg, path, false)
	assert.ErrorContains(t, err, "already exists")

	assert.NoError(t, writeConfigFile(cfg, path, true))
}

func TestDisabledProgressIgnoresCallbacks(t *testing.T) {
	var buf bytes.Buffer
	p := newFrameProgress(false, &buf)
	p.start(&ffmpeg.VideoInfo{FrameCount: 10})
	p.update(10)
	p.finish()

	c := newClipProgress(false, &buf)
	c.update(1, &ffmpeg.Progress{Frame: 5})
	c.finish()
	assert.Empty(t, buf.String())
}
