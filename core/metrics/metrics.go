// Package metrics defines the sink interface the prediction engine reports
// into. Concrete sinks (Prometheus, InfluxDB) live under infra/metrics so the
// core stays free of exporter dependencies.
package metrics

import "time"

// PredictionEvent summarizes one completed prediction call.
type PredictionEvent struct {
	Family       string
	Mode         string
	Observations int
	// Replicates is the draw-matrix width, zero for single-shot calls.
	Replicates int
	// Failures counts bootstrap replicates recorded as NaN columns.
	Failures int
	Duration time.Duration
}

// MetricsSink receives engine events. Implementations must be safe for
// concurrent use.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error { return nil }
