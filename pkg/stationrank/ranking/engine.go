package ranking

import (
	"time"

	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/pkg/stationrank/columns"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/parser"
)

// Recorder receives a summary of each ranking run.
type Recorder interface {
	RecordRanking(partitions, rows, unassigned int, duration time.Duration)
}

// Engine ranks rows. It holds no per-run state and is safe for concurrent use.
type Engine struct {
	logger   *zap.Logger
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug traces of derived values.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder sets the recorder notified after each run.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// NewEngine creates an Engine. Without options it logs nothing.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank partitions records, sorts each partition and assigns 1-based ranks.
// The input records are never modified; an empty input yields an empty result.
func (e *Engine) Rank(records []models.Record) *models.Result {
	start := time.Now()

	groups, unassigned := PartitionRecords(records)
	result := &models.Result{
		Partitions: make([]models.Partition, 0, len(groups)),
		Unassigned: unassigned,
	}

	for _, g := range groups {
		rows := e.rankGroup(g)
		var cols []string
		if len(rows) > 0 {
			cols = OutputColumns(rows[0].Record)
		}
		result.Partitions = append(result.Partitions, models.Partition{
			Label:      g.Label,
			WorkCenter: g.WorkCenter,
			Team:       g.Team,
			Columns:    cols,
			Rows:       rows,
		})
	}

	if unassigned > 0 {
		e.logger.Warn("Rows without work center skipped", zap.Int("rows", unassigned))
	}

	duration := time.Since(start)
	e.logger.Info("Ranking complete",
		zap.Int("partitions", len(result.Partitions)),
		zap.Int("rows", result.RowCount()),
		zap.Duration("duration", duration),
	)
	if e.recorder != nil {
		e.recorder.RecordRanking(len(result.Partitions), result.RowCount(), unassigned, duration)
	}
	return result
}

func (e *Engine) rankGroup(g Group) []models.RankedRow {
	sorted := SortRecords(g.Records)
	rows := make([]models.RankedRow, len(sorted))
	for i, rec := range sorted {
		rows[i] = models.RankedRow{Rank: i + 1, Record: rec}
		if d, ok := SupplyCompletionDate(rec); ok {
			rows[i].SupplyDate = &d
		}
		e.traceRow(g.Label, rows[i])
	}
	return rows
}

func (e *Engine) traceRow(label string, row models.RankedRow) {
	ce := e.logger.Check(zap.DebugLevel, "Row ranked")
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.String("partition", label),
		zap.Int("rank", row.Rank),
	}
	if q, ok := columns.QuantityOf(row.Record); ok {
		fields = append(fields, zap.Float64("quantity", q))
	}
	if r, ok := columns.RemainingOf(row.Record); ok {
		fields = append(fields, zap.Float64("remaining", r))
	}
	if d, ok := columns.ExpectedDateOf(row.Record); ok {
		fields = append(fields, zap.String("expected_date", parser.FormatDate(d)))
	}
	if row.SupplyDate != nil {
		fields = append(fields, zap.String("supply_date", parser.FormatDate(*row.SupplyDate)))
	}
	if p, ok := columns.PriorityOf(row.Record); ok {
		fields = append(fields, zap.Int("priority", p))
	}
	ce.Write(fields...)
}

// Rank ranks records with a default Engine.
func Rank(records []models.Record) *models.Result {
	return NewEngine().Rank(records)
}
