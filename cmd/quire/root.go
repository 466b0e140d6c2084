package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papyrus-labs/quire/internal/output"
	"github.com/papyrus-labs/quire/version"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
	logger       *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quire",
	Short: "Thesis structure and reference extraction pipeline",
	Long: `Quire turns raw thesis documents (mixed Chinese/English, uneven
formatting) into one structured record.

The pipeline includes:
  - Section boundary detection with confidence scoring
  - Table-of-contents reconstruction from embedded navigation anchors
  - LLM-backed section analysis under a bounded worker pool
  - Reference extraction with format-variant matching
  - A quality gate that degrades gracefully instead of failing`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.quire/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	// Set output format and logging before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.SetFormat(outputFormat)

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	}

	rootCmd.AddCommand(extractCmd, configCmd, versionCmd)
}
