package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "statpredict/core/metrics"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	failures  *prometheus.CounterVec
	drawWidth prometheus.Gauge
}

// NewPromSink registers prediction metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_runs_total",
		Help: "Total number of prediction calls",
	}, []string{"family", "mode", "resampled"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_duration_seconds",
		Help:    "Wall time of one prediction call",
		Buckets: prometheus.DefBuckets,
	}, []string{"family", "mode"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_replicate_failures_total",
		Help: "Bootstrap replicates that failed to refit",
	}, []string{"family"})
	drawWidth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prediction_last_draw_width",
		Help: "Replicate count of the most recent resampled call",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
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
	if err := reg.Register(failures); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			failures = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(drawWidth); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			drawWidth = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, duration: duration, failures: failures, drawWidth: drawWidth}, nil
}

// RecordPrediction implements coremetrics.MetricsSink.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.runs.WithLabelValues(ev.Family, ev.Mode, strconv.FormatBool(ev.Replicates > 0)).Inc()
	s.duration.WithLabelValues(ev.Family, ev.Mode).Observe(ev.Duration.Seconds())
	if ev.Failures > 0 {
		s.failures.WithLabelValues(ev.Family).Add(float64(ev.Failures))
	}
	if ev.Replicates > 0 {
		s.drawWidth.Set(float64(ev.Replicates))
	}
	return nil
}
