package telemetry

import (
	"go.uber.org/zap"
)

// Event actions and categories.
const (
	ActionFileUpload     = "file_upload"
	ActionFileDownload   = "file_download"
	ActionPrioritization = "prioritization_generated"

	CategoryEngagement = "engagement"
)

// Event is a single analytics event.
type Event struct {
	Action   string
	Category string
	Label    string
	// Value is an optional numeric payload such as a row count.
	Value *int64
}

// Tracker counts analytics events and writes them to the log.
// A nil *Tracker discards events.
type Tracker struct {
	logger *zap.Logger
}

// NewTracker creates a Tracker. A nil logger disables the log record but
// events are still counted.
func NewTracker(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{logger: logger.Named("events")}
}

// Track records e.
func (t *Tracker) Track(e Event) {
	if t == nil {
		return
	}
	EventsTotal.WithLabelValues(e.Action, e.Category).Inc()

	fields := []zap.Field{
		zap.String("action", e.Action),
		zap.String("category", e.Category),
	}
	if e.Label != "" {
		fields = append(fields, zap.String("label", e.Label))
	}
	if e.Value != nil {
		fields = append(fields, zap.Int64("value", *e.Value))
	}
	t.logger.Info("Event", fields...)
}

// TrackFileUpload records that fileName was uploaded.
func (t *Tracker) TrackFileUpload(fileName string) {
	t.Track(Event{Action: ActionFileUpload, Category: CategoryEngagement, Label: fileName})
}

// TrackFileDownload records that fileName was downloaded.
func (t *Tracker) TrackFileDownload(fileName string) {
	t.Track(Event{Action: ActionFileDownload, Category: CategoryEngagement, Label: fileName})
}

// TrackPrioritization records a ranking over rowCount rows.
func (t *Tracker) TrackPrioritization(rowCount int) {
	v := int64(rowCount)
	t.Track(Event{Action: ActionPrioritization, Category: CategoryEngagement, Value: &v})
}
