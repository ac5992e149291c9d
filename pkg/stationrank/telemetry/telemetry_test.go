package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(Config{
		Level:      "warn",
		Format:     "json",
		OutputPath: path,
		Fields:     map[string]string{"service": "stationrank"},
	})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"service":"stationrank"`)
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	logger, err := NewLogger(Config{Level: "loud", OutputPath: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsRecordRanking(t *testing.T) {
	m := NewMetrics("test-ranking")
	m.RecordRanking(3, 12, 2, 5*time.Millisecond)
	m.RecordRanking(1, 4, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(RankingsTotal.WithLabelValues("test-ranking")))
	assert.Equal(t, 16.0, testutil.ToFloat64(RowsRanked.WithLabelValues("test-ranking")))
	assert.Equal(t, 2.0, testutil.ToFloat64(RowsUnassigned.WithLabelValues("test-ranking")))
}

func TestMetricsRecordExportAndStore(t *testing.T) {
	m := NewMetrics("test-export")
	before := testutil.ToFloat64(ExportsTotal.WithLabelValues("csv-test", StatusError))
	m.RecordExport("csv-test", errors.New("disk full"))
	assert.Equal(t, before+1, testutil.ToFloat64(ExportsTotal.WithLabelValues("csv-test", StatusError)))

	m.RecordStoreOp("memory-test", "put", nil, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("memory-test", "put", StatusOK)))
}

func TestWriteTextfile(t *testing.T) {
	NewMetrics("test-textfile").RecordRanking(1, 1, 0, time.Millisecond)

	path := filepath.Join(t.TempDir(), "stationrank.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `stationrank_rankings_total{source="test-textfile"} 1`))
}

func TestTrackerEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tracker := NewTracker(zap.New(core))

	before := testutil.ToFloat64(EventsTotal.WithLabelValues(ActionPrioritization, CategoryEngagement))
	tracker.TrackFileUpload("plan.xlsx")
	tracker.TrackPrioritization(42)

	assert.Equal(t, before+1, testutil.ToFloat64(EventsTotal.WithLabelValues(ActionPrioritization, CategoryEngagement)))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "events", entries[0].LoggerName)
	assert.Equal(t, ActionFileUpload, entries[0].ContextMap()["action"])
	assert.Equal(t, "plan.xlsx", entries[0].ContextMap()["label"])
	assert.Equal(t, int64(42), entries[1].ContextMap()["value"])
	assert.NotContains(t, entries[1].ContextMap(), "label")
}

func TestNilTracker(t *testing.T) {
	var tracker *Tracker
	assert.NotPanics(t, func() { tracker.TrackFileDownload("a.csv") })
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusOK, Status(nil))
	assert.Equal(t, StatusError, Status(errors.New("x")))
}
