package metrics

import coremetrics "github.com/kilianp07/driverboard/core/metrics"

// MultiSink fans fetch records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFetch forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordFetch(recs []coremetrics.FetchRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordFetch(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordSnapshot forwards the snapshot record to sinks that support it.
func (m *MultiSink) RecordSnapshot(rec coremetrics.SnapshotRecord) error {
	for _, s := range m.Sinks {
		if sr, ok := s.(coremetrics.SnapshotRecorder); ok {
			if err := sr.RecordSnapshot(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
