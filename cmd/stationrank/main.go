// Package main provides the CLI entry point for stationrank.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/internal/config"
	"github.com/stationrank/stationrank-go/pkg/stationrank/telemetry"
)

var (
	configPath  string
	logLevel    string
	metricsFile string

	cfg     *config.Config
	logger  = zap.NewNop()
	tracker *telemetry.Tracker
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stationrank",
		Short: "Rank work-order spreadsheets per work station",
		Long: `stationrank orders the rows of a work-order spreadsheet within each work
station (and each team of station TU) by supply completion date, remaining
balance and internal priority, and exports the ranked tabs as JSON, CSV or XLSX.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(newRankCmd(), newFilesCmd())
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if metricsFile != "" {
		cfg.Metrics.TextfilePath = metricsFile
	}

	l, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = l
	tracker = telemetry.NewTracker(logger)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	if cfg != nil && cfg.Metrics.TextfilePath != "" {
		if err := telemetry.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
