// Package app wires configuration into a ready prediction service: engine,
// metric sinks, run-log store and the HTTP surface.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"statpredict/api/predictions"
	"statpredict/config"
	"statpredict/core/families"
	"statpredict/core/logger"
	coremetrics "statpredict/core/metrics"
	"statpredict/core/model"
	"statpredict/core/predict"
	"statpredict/core/runlog"
	infralogger "statpredict/infra/logger"
	"statpredict/infra/metrics"
	"statpredict/internal/diagbus"
)

// Service owns the engine and its collaborators.
type Service struct {
	Engine *predict.Engine
	Store  runlog.Store
	Bus    *diagbus.Bus

	cfg *config.Config
	log logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := infralogger.NewZerologLoggerWithLevel("service", cfg.Logging.Level)

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	var store runlog.Store
	var err error
	switch cfg.RunLog.Backend {
	case "jsonl":
		store, err = runlog.NewJSONLStore(cfg.RunLog.Path)
	case "sqlite":
		store, err = runlog.NewSQLiteStore(cfg.RunLog.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("runlog store: %w", err)
	}

	bus := diagbus.New()
	engine := predict.New(families.Default(), logg, bus, sink)
	return &Service{Engine: engine, Store: store, Bus: bus, cfg: cfg, log: logg}, nil
}

// Options returns prediction options seeded from the configured engine
// defaults.
func (s *Service) Options() predict.Options {
	return predict.Options{
		Level:      s.cfg.Engine.Level,
		Replicates: s.cfg.Engine.Replicates,
		Workers:    s.cfg.Engine.Workers,
		Seed:       s.cfg.Engine.Seed,
	}
}

// Predict fits the spec on data, predicts with opts, and appends a run
// record when a store is configured. The returned id identifies the run.
func (s *Service) Predict(spec families.Spec, data *model.Frame, opts predict.Options) (string, *predict.Result, error) {
	m, err := families.Fit(spec, data)
	if err != nil {
		return "", nil, fmt.Errorf("fit %s: %w", spec.Family, err)
	}
	res, err := s.Engine.Predict(m, opts)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	if s.Store != nil {
		rec := runlog.Record{
			ID:           id,
			Timestamp:    time.Now().UTC(),
			Family:       spec.Family,
			Mode:         string(res.Mode),
			Observations: len(res.Values),
			Failures:     res.Failures,
			Level:        res.Level,
			Values:       res.Values,
		}
		if res.Draws != nil {
			_, rec.Replicates = res.Draws.Dims()
		}
		if res.Intervals != nil {
			rec.Lower = res.Intervals.Lower
			rec.Upper = res.Intervals.Upper
		}
		if err := s.Store.Append(context.Background(), rec); err != nil {
			s.log.Errorf("runlog append: %v", err)
		}
	}
	return id, res, nil
}

// Run serves the HTTP API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			addr := ":" + s.cfg.Metrics.PrometheusPort
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/predictions", predictions.NewHandler(s))
	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases the run-log store and diagnostics bus.
func (s *Service) Close() {
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			s.log.Errorf("runlog close: %v", err)
		}
	}
	s.Bus.Close()
}
