// Package stationrank ranks work-order spreadsheet rows per work station.
package stationrank

import (
	"go.uber.org/zap"

	"github.com/stationrank/stationrank-go/pkg/stationrank/ranking"
)

// Options configures decoding and ranking.
type Options struct {
	// Sheet is the worksheet to read from workbooks. Empty means the first sheet.
	Sheet string
	// Logger receives decode and ranking logs. Nil disables logging.
	Logger *zap.Logger
	// Recorder is notified after each ranking run. Nil disables it.
	Recorder ranking.Recorder
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Engine returns a ranking engine configured from o.
func (o Options) Engine() *ranking.Engine {
	opts := []ranking.Option{ranking.WithLogger(o.logger())}
	if o.Recorder != nil {
		opts = append(opts, ranking.WithRecorder(o.Recorder))
	}
	return ranking.NewEngine(opts...)
}
