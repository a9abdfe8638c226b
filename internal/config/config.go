package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Environment variables that override the config file
const (
	EnvFFmpeg    = "SCENESPLIT_FFMPEG"
	EnvFFprobe   = "SCENESPLIT_FFPROBE"
	EnvThreads   = "SCENESPLIT_THREADS"
	EnvOutputDir = "SCENESPLIT_OUTPUT_DIR"
)

// Config holds all application configuration
type Config struct {
	// Detection settings
	Detection DetectionConfig `yaml:"detection"`

	// Split settings
	Split SplitConfig `yaml:"split"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Progress shows a progress bar while frames are analyzed
	Progress bool `yaml:"progress"`
}

// DetectionConfig tunes frame sampling and cut detection
type DetectionConfig struct {
	// MotionThreshold is the mean gray difference above which no frames are skipped
	MotionThreshold float64 `yaml:"motion_threshold"`
	MinSkip         int     `yaml:"min_skip"`
	MaxSkip         int     `yaml:"max_skip"`

	AdaptiveThreshold float64 `yaml:"adaptive_threshold"`
	WindowWidth       int     `yaml:"window_width"`
	MinContentVal     float64 `yaml:"min_content_val"`
	Downscale         int     `yaml:"downscale"`
}

type SplitConfig struct {
	// MinDuration is the merge floor in seconds
	MinDuration   float64 `yaml:"min_duration"`
	OutputDir     string  `yaml:"output_dir"`
	OutputPattern string  `yaml:"output_pattern"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	Threads    int    `yaml:"threads"`
}

// Load reads configuration from file or returns defaults. Values from the
// environment (and a .env file in the working directory) win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.FFmpeg.BinaryPath = v
	}
	if v := os.Getenv(EnvFFprobe); v != "" {
		c.FFmpeg.ProbePath = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Split.OutputDir = v
	}
	if v := os.Getenv(EnvThreads); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.FFmpeg.Threads = n
	}
	return nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal renders the configuration as yaml
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			MotionThreshold:   3.0,
			MinSkip:           0,
			MaxSkip:           5,
			AdaptiveThreshold: 3.2,
			WindowWidth:       4,
			MinContentVal:     20.0,
			Downscale:         1,
		},
		Split: SplitConfig{
			MinDuration:   5.0,
			OutputDir:     "output_scenes",
			OutputPattern: "Scene_%d.mp4",
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			Threads:    0,
		},
		Progress: true,
	}
}

func findConfigFile() string {
	candidates := []string{
		"./scenesplit.yaml",
		"./scenesplit.yml",
		filepath.Join(os.Getenv("HOME"), ".scenesplit", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
