package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "statpredict/core/metrics"
)

func TestPromSinkRecordsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	err = sink.RecordPrediction(coremetrics.PredictionEvent{
		Family:       "gaussian",
		Mode:         "expectation",
		Observations: 10,
		Duration:     20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	err = sink.RecordPrediction(coremetrics.PredictionEvent{
		Family:     "binomial",
		Mode:       "link",
		Replicates: 100,
		Failures:   3,
		Duration:   time.Second,
	})
	if err != nil {
		t.Fatalf("record resampled: %v", err)
	}

	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.runs.WithLabelValues("gaussian", "expectation", "false")); got != 1 {
		t.Fatalf("runs counter %v, want 1", got)
	}
	if got := testutil.ToFloat64(ps.runs.WithLabelValues("binomial", "link", "true")); got != 1 {
		t.Fatalf("resampled runs counter %v, want 1", got)
	}
	if got := testutil.ToFloat64(ps.failures.WithLabelValues("binomial")); got != 3 {
		t.Fatalf("failure counter %v, want 3", got)
	}
	if got := testutil.ToFloat64(ps.drawWidth); got != 100 {
		t.Fatalf("draw width gauge %v, want 100", got)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first sink: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second sink must reuse existing collectors: %v", err)
	}
}

type failingSink struct{}

func (failingSink) RecordPrediction(coremetrics.PredictionEvent) error {
	return fmt.Errorf("sink unavailable")
}

func TestMultiSinkForwardsAndPropagatesError(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	multi := NewMultiSink(prom, coremetrics.NopSink{})
	if err := multi.RecordPrediction(coremetrics.PredictionEvent{Family: "gaussian", Mode: "link"}); err != nil {
		t.Fatalf("multi record: %v", err)
	}
	failing := NewMultiSink(failingSink{}, prom)
	if err := failing.RecordPrediction(coremetrics.PredictionEvent{}); err == nil {
		t.Fatalf("expected first-sink error to propagate")
	}
}
