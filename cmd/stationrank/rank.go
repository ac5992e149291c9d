package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stationrank/stationrank-go/pkg/stationrank"
	"github.com/stationrank/stationrank-go/pkg/stationrank/telemetry"
)

var (
	rankExport exportFlags
	rankSheet  string
)

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank [input.xlsx|input.csv]",
		Short: "Rank the rows of a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runRank,
	}
	addExportFlags(cmd, &rankExport)
	cmd.Flags().StringVar(&rankSheet, "sheet", "", "Worksheet to read (default: first sheet)")
	return cmd
}

func addExportFlags(cmd *cobra.Command, f *exportFlags) {
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: json, csv, xlsx (default from config)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&f.workCenter, "work-center", "", "Only output this work center's tab")
	cmd.Flags().StringVar(&f.team, "team", "", "Team tab of the TU work center (default: first team)")
	cmd.Flags().StringVar(&f.tab, "tab", "", "Only output the tab with this label (overrides --work-center)")
}

func runRank(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	sheet := rankSheet
	if sheet == "" {
		sheet = cfg.Input.Sheet
	}
	metrics := telemetry.NewMetrics("file")
	opts := stationrank.Options{
		Sheet:    sheet,
		Logger:   logger,
		Recorder: metrics,
	}

	result, err := stationrank.Rank(inputPath, opts)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}
	tracker.TrackPrioritization(result.RowCount())

	return exportResult(result, rankExport, metrics)
}
