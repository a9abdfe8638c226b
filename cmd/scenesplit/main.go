package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/scenesplit/internal/config"
	"github.com/keagan/scenesplit/internal/ffmpeg"
	"github.com/keagan/scenesplit/internal/logging"
	"github.com/keagan/scenesplit/internal/pipeline"
	"github.com/keagan/scenesplit/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger := logging.WithComponent("cli")
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "scenesplit",
	Short:         "scenesplit - split a video into its scenes",
	Long:          "Detects scene cuts with motion-adaptive frame sampling and writes one stream-copied file per scene.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./scenesplit.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	addTuningFlags(splitCmd)
	addTuningFlags(detectCmd)
	detectCmd.Flags().StringVar(&detectFormat, "format", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

var splitCmd = &cobra.Command{
	Use:   "split [input video]",
	Short: "Detect scenes and write one file per scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}

		logger, _ := logging.WithRun(log.Logger)
		pipe, err := pipeline.New(logger, cfg)
		if err != nil {
			return err
		}

		progress := newFrameProgress(cfg.Progress, os.Stderr)
		clips := newClipProgress(cfg.Progress, os.Stderr)
		res, err := pipe.Split(cmd.Context(), args[0], pipeline.Options{
			OnProbe: progress.start,
			OnFrame: progress.update,
			OnClipProgress: func(n int, p *ffmpeg.Progress) {
				// Frame analysis is over once extraction reports.
				progress.finish()
				clips.update(n, p)
			},
			Out: cmd.OutOrStdout(),
		})
		progress.finish()
		clips.finish()
		if err != nil {
			return err
		}

		logger.Info().
			Int("scenes", len(res.Merged)).
			Int("files", len(res.Outputs)).
			Msg("split complete")

		return nil
	},
}

var detectFormat string

var detectCmd = &cobra.Command{
	Use:   "detect [input video]",
	Short: "Detect scenes and print them without writing files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}

		logger, _ := logging.WithRun(log.Logger)
		pipe, err := pipeline.New(logger, cfg)
		if err != nil {
			return err
		}

		progress := newFrameProgress(cfg.Progress, os.Stderr)
		res, err := pipe.Detect(cmd.Context(), args[0], pipeline.Options{
			OnProbe: progress.start,
			OnFrame: progress.update,
		})
		progress.finish()
		if err != nil {
			return err
		}

		return writeScenes(cmd.OutOrStdout(), detectFormat, res.Merged)
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Print the metadata scene detection will use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		info, err := pipe.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		writeInfo(cmd.OutOrStdout(), info)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.FromContext(cmd.Context()).Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a file (default: ./scenesplit.yaml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "scenesplit.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		return writeConfigFile(config.FromContext(cmd.Context()), path, configForce)
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

func writeConfigFile(cfg *config.Config, path string, force bool) error {
	if !force && util.FileExists(path) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	log.Info().Str("path", path).Msg("config written")
	return nil
}
