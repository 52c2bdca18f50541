package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pairmerge/internal/codec"
	"pairmerge/internal/config"
	"pairmerge/internal/deps"
	"pairmerge/internal/logging"
	"pairmerge/internal/merge"
)

// Test hooks for swapping the real codec.
var (
	newDecoder = func() merge.Decoder { return codec.NewMP3Decoder() }
	newEncoder = func(binary, bitrate string) merge.Encoder {
		return codec.NewFFmpegEncoder(codec.WithBinary(binary), codec.WithBitrate(bitrate))
	}
	executableDir = config.ExecutableDir
)

func runMerge(cmd *cobra.Command, ctx *commandContext, flags *runFlags) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := applyRunFlags(cmd, &cfg, flags); err != nil {
		return err
	}

	logger, closer, err := logging.NewFromConfig(&cfg, cmd.ErrOrStderr(), flags.quiet)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	exeDir, err := executableDir()
	if err != nil {
		return fmt.Errorf("resolve executable directory: %w", err)
	}
	ffmpeg := deps.ResolveFFmpeg(cfg.Encoder.FFmpegBinary, exeDir)
	if !ffmpeg.Available {
		return fmt.Errorf("ffmpeg is required to write MP3 output: %s", ffmpeg.Detail)
	}
	logger.Debug("ffmpeg resolved", logging.String("path", ffmpeg.Path))

	opts := merge.OptionsFromConfig(&cfg)
	opts.RunID = logging.NewRunID()
	runner, err := merge.NewRunner(opts, newDecoder(), newEncoder(ffmpeg.Path, cfg.Encoder.Bitrate), logger)
	if err != nil {
		return err
	}

	summary, runErr := runner.Run(cmd.Context())
	if !flags.quiet && summary.Results != nil {
		first, second := cfg.LanguageLabels()
		fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary, first, second))
	}
	if runErr != nil {
		if errors.Is(runErr, merge.ErrRunLocked) {
			return fmt.Errorf("%w (%s)", runErr, cfg.Paths.OutputDir)
		}
		return fmt.Errorf("merge run: %w", runErr)
	}
	return nil
}

// applyRunFlags copies explicitly set flags over the loaded configuration and
// re-resolves directories, so relative flag values land under the base dir.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) error {
	changed := cmd.Flags().Changed
	if changed("cn_dir") {
		cfg.Paths.CNDir = flags.cnDir
	}
	if changed("en_dir") {
		cfg.Paths.ENDir = flags.enDir
	}
	if changed("output_dir") {
		cfg.Paths.OutputDir = flags.outputDir
	}
	if changed("volume_sync") {
		cfg.Loudness.Enabled = flags.volumeSync
	}
	if changed("target_dBFS") {
		cfg.Loudness.TargetDBFS = flags.targetDBFS
	}
	if changed("workers") {
		cfg.Run.Workers = flags.workers
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(flags.logLevel))
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(flags.logFormat))
	}
	if err := cfg.ResolveDirs(); err != nil {
		return fmt.Errorf("resolve directories: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
