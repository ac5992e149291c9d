package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

const sampleCSV = "מרכז עבודה,צוות,מועד סיום צפוי,כמות פק\"ע\n" +
	"TU,A,05.01.2024,10\n" +
	"QC,,01.01.2024,10\n" +
	"TU,B,01.01.2024,10\n"

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestRankCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0644))

	out := filepath.Join(dir, "ranked.csv")
	metricsPath := filepath.Join(dir, "stationrank.prom")
	require.NoError(t, runCLI(t, "rank", input, "-o", out, "--format", "csv", "--log-level", "error", "--metrics-file", metricsPath))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimPrefix(string(data), "\ufeff"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `"#","מרכז עבודה","מועד סיום צפוי","תאריך סיום אספקות","כמות פק""ע"`, lines[0])
	assert.Equal(t, `"1","TU","5.1.2024","5.1.2024","10"`, lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, `"1","TU","1.1.2024","1.1.2024","10"`, lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, `"1","QC","1.1.2024","1.1.2024","10"`, lines[5])

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "stationrank_rankings_total")
}

func TestRankCommandSelection(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0644))

	out := filepath.Join(dir, "ranked.json")
	require.NoError(t, runCLI(t, "rank", input, "-o", out, "--format", "json", "--work-center", "TU", "--team", "B", "--log-level", "error"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label":"TU - B"`)
	assert.NotContains(t, string(data), `"label":"QC"`)

	err = runCLI(t, "rank", input, "-o", out, "--work-center", "ZZ", "--log-level", "error")
	assert.ErrorContains(t, err, "no partition")
}

func TestRankCommandTabLabel(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plan.csv")
	csv := "מרכז עבודה,צוות,מועד סיום צפוי\n" +
		"TU,A,05.01.2024\n" +
		"TU,,01.01.2024\n"
	require.NoError(t, os.WriteFile(input, []byte(csv), 0644))

	out := filepath.Join(dir, "ranked.json")
	require.NoError(t, runCLI(t, "rank", input, "-o", out, "--format", "json", "--tab", "TU", "--log-level", "error"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label":"TU"`)
	assert.NotContains(t, string(data), `"label":"TU - A"`)

	err = runCLI(t, "rank", input, "-o", out, "--tab", "TU - Z", "--log-level", "error")
	assert.ErrorContains(t, err, "no partition labeled")
}

func TestRankCommandErrors(t *testing.T) {
	assert.ErrorContains(t, runCLI(t, "rank", filepath.Join(t.TempDir(), "missing.csv")), "file not found")

	input := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0644))
	assert.ErrorContains(t, runCLI(t, "rank", input, "--format", "pdf", "--work-center", ""), "invalid format")
}

func TestFilesRequirePersistentStore(t *testing.T) {
	err := runCLI(t, "files", "list", "--log-level", "error")
	assert.ErrorContains(t, err, "keeps no uploads between runs")
}

func TestEncodeResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeResult(&buf, &models.Result{}, "json", false))
	assert.Equal(t, "{\"partitions\":null}\n", buf.String())
}
