package metrics

import "time"

// FetchRecord describes one upstream fetch executed during a poll cycle.
type FetchRecord struct {
	Source   string // "blocks" or "rows"
	OK       bool
	Records  int
	Duration time.Duration
	At       time.Time
}

// SnapshotRecord describes the retained snapshot after a refresh landed.
type SnapshotRecord struct {
	Drivers int
	Rows    int
	At      time.Time
}

// MetricsSink records upstream fetch outcomes for observability.
type MetricsSink interface {
	RecordFetch(recs []FetchRecord) error
}

// SnapshotRecorder is implemented by sinks that also track snapshot
// gauges.
type SnapshotRecorder interface {
	RecordSnapshot(SnapshotRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordFetch([]FetchRecord) error     { return nil }
func (NopSink) RecordSnapshot(SnapshotRecord) error { return nil }
