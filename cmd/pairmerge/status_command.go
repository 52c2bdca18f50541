package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pairmerge/internal/config"
	"pairmerge/internal/deps"
	"pairmerge/internal/pairing"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check tools, directories, and configuration before a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			exeDir, err := executableDir()
			if err != nil {
				return fmt.Errorf("resolve executable directory: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string

			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			statuses := []deps.Status{deps.ResolveFFmpeg(cfg.Encoder.FFmpegBinary, exeDir)}
			if statuses[0].Available {
				statuses = append(statuses, deps.CheckMP3Encoder(cmd.Context(), statuses[0].Path))
			}
			lines = append(lines, dependencyLines(statuses, colorize)...)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			first, second := cfg.LanguageLabels()
			lines = append(lines, inputDirLine(first+" clips", cfg.Paths.CNDir, colorize))
			lines = append(lines, inputDirLine(second+" clips", cfg.Paths.ENDir, colorize))
			lines = append(lines, outputDirLine(cfg.Paths.OutputDir, colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines, configLines(ctx, cfg, colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func inputDirLine(label, dir string, colorize bool) string {
	if err := pairing.CheckReadable(dir); err != nil {
		return renderStatusLine(label, statusError, err.Error(), colorize)
	}
	entries, err := pairing.ScanDir(dir, pairing.DefaultExtension)
	if err != nil {
		return renderStatusLine(label, statusError, err.Error(), colorize)
	}
	if len(entries) == 0 {
		return renderStatusLine(label, statusWarn, fmt.Sprintf("no %s files in %s", pairing.DefaultExtension, dir), colorize)
	}
	return renderStatusLine(label, statusOK, fmt.Sprintf("%d clips in %s", len(entries), dir), colorize)
}

func outputDirLine(dir string, colorize bool) string {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return renderStatusLine("Output", statusInfo, dir+" (created on first run)", colorize)
	case err != nil:
		return renderStatusLine("Output", statusError, err.Error(), colorize)
	case !info.IsDir():
		return renderStatusLine("Output", statusError, dir+" is not a directory", colorize)
	default:
		return renderStatusLine("Output", statusOK, dir, colorize)
	}
}

func configLines(ctx *commandContext, cfg *config.Config, colorize bool) []string {
	source := ctx.configPath
	kind := statusOK
	if !ctx.configExists {
		source += " (not found; defaults in use)"
		kind = statusInfo
	}
	loudness := "off"
	if cfg.Loudness.Enabled {
		loudness = fmt.Sprintf("%.1f dBFS", cfg.Loudness.TargetDBFS)
	}
	return []string{
		renderStatusLine("Config file", kind, source, colorize),
		renderStatusLine("Base directory", statusInfo, cfg.Paths.BaseDir, colorize),
		renderStatusLine("Loudness sync", statusInfo, loudness, colorize),
		renderStatusLine("Workers", statusInfo, fmt.Sprintf("%d", cfg.Run.Workers), colorize),
		renderStatusLine("Log file", statusInfo, yesNo(cfg.Logging.Dir != ""), colorize),
	}
}
