package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/driverboard/core/metrics"
)

// PromSink records upstream fetch outcomes in Prometheus metrics.
type PromSink struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	drivers  prometheus.Gauge
	rows     prometheus.Gauge
}

// NewPromSink registers the fetch metrics on the provided registerer. If
// reg is nil, the default registerer is used. Already registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_fetches_total",
		Help: "Total number of upstream fetches",
	}, []string{"source", "ok"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_fetch_duration_seconds",
		Help:    "Duration of upstream fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "ok"})
	drivers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_drivers",
		Help: "Drivers present in the retained snapshot",
	})
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_rows",
		Help: "Dashboard rows present in the retained snapshot",
	})

	if err := reg.Register(fetches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fetches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(drivers); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			drivers = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rows); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rows = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{fetches: fetches, duration: duration, drivers: drivers, rows: rows}, nil
}

// RecordFetch increments the counters and observes the duration for each
// fetch outcome.
func (s *PromSink) RecordFetch(recs []coremetrics.FetchRecord) error {
	for _, r := range recs {
		ok := strconv.FormatBool(r.OK)
		s.fetches.WithLabelValues(r.Source, ok).Inc()
		s.duration.WithLabelValues(r.Source, ok).Observe(r.Duration.Seconds())
	}
	return nil
}

// RecordSnapshot updates the snapshot gauges.
func (s *PromSink) RecordSnapshot(rec coremetrics.SnapshotRecord) error {
	s.drivers.Set(float64(rec.Drivers))
	s.rows.Set(float64(rec.Rows))
	return nil
}
