package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/internal/config"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/output"
	"github.com/stationrank/stationrank-go/pkg/stationrank/ranking"
	"github.com/stationrank/stationrank-go/pkg/stationrank/telemetry"
)

// exportFlags are shared by every command that writes a ranking result.
type exportFlags struct {
	outputPath string
	format     string
	pretty     bool
	workCenter string
	team       string
	tab        string
}

// selectPartition narrows result to the selected tab when a tab label or a
// work center is given.
func selectPartition(result *models.Result, flags exportFlags) (*models.Result, error) {
	if flags.tab == "" && flags.workCenter == "" {
		return result, nil
	}
	sel, p, ok := ranking.Select(result, ranking.Selection{
		WorkCenter: flags.workCenter,
		Team:       flags.team,
		Label:      flags.tab,
	})
	if !ok {
		if sel.Label != "" {
			return nil, fmt.Errorf("no partition labeled %q (tabs: %q)", sel.Label, ranking.Labels(result))
		}
		return nil, fmt.Errorf("no partition for work center %q team %q (work centers: %v)",
			sel.WorkCenter, sel.Team, ranking.WorkCenters(result))
	}
	return &models.Result{
		Source:     result.Source,
		Partitions: []models.Partition{*p},
		Unassigned: result.Unassigned,
	}, nil
}

func encodeResult(w io.Writer, result *models.Result, format string, pretty bool) error {
	switch format {
	case config.FormatJSON:
		data, err := output.ToJSON(result, pretty)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case config.FormatCSV:
		return output.WriteCSV(w, result)
	case config.FormatXLSX:
		return output.WriteXLSX(w, result)
	}
	return fmt.Errorf("invalid format: %s (must be json, csv, or xlsx)", format)
}

func exportResult(result *models.Result, flags exportFlags, metrics *telemetry.Metrics) error {
	format := flags.format
	if format == "" {
		format = cfg.Export.Format
	}
	pretty := flags.pretty || cfg.Export.Pretty

	selected, err := selectPartition(result, flags)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = encodeResult(&buf, selected, format, pretty)
	metrics.RecordExport(format, err)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if flags.outputPath == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(flags.outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Wrote result",
		zap.String("path", flags.outputPath),
		zap.String("format", format),
		zap.Int("partitions", len(selected.Partitions)),
	)
	return nil
}
