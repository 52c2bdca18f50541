package main

import (
	"github.com/spf13/cobra"
)

// runFlags mirrors the command-line overrides of a merge run. Only flags the
// user actually set replace configuration values.
type runFlags struct {
	cnDir      string
	enDir      string
	outputDir  string
	volumeSync bool
	targetDBFS float64
	workers    int
	logLevel   string
	logFormat  string
	quiet      bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &runFlags{}

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "pairmerge",
		Short: "Merge numbered Chinese and English MP3 clips pair by pair",
		Long: `pairmerge pairs <n>.mp3 files from two directories by numeric order,
optionally equalizes their loudness, and writes merged_<n>.mp3 with the
Chinese clip followed by the English clip.

Relative directories are resolved against the directory holding the
pairmerge executable, not the current working directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, ctx, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	f := rootCmd.Flags()
	f.StringVar(&flags.cnDir, "cn_dir", "cn", "Directory of Chinese clips")
	f.StringVar(&flags.enDir, "en_dir", "en", "Directory of English clips")
	f.StringVar(&flags.outputDir, "output_dir", "output", "Directory for merged clips")
	f.BoolVar(&flags.volumeSync, "volume_sync", false, "Normalize every clip to --target_dBFS before merging")
	f.Float64Var(&flags.targetDBFS, "target_dBFS", -20.0, "Loudness target in dBFS used with --volume_sync")
	f.IntVar(&flags.workers, "workers", 1, "Number of pairs processed concurrently")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format (console, json)")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Only log warnings and errors and skip the summary table")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))

	return rootCmd
}
