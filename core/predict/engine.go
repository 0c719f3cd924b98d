package predict

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"statpredict/core/classify"
	"statpredict/core/families"
	"statpredict/core/logger"
	"statpredict/core/metrics"
	"statpredict/core/model"
	"statpredict/core/resample"
	"statpredict/core/transform"
	"statpredict/internal/diagbus"
)

// ErrUnknownFamily is returned when no adaptor is registered for the model's
// family tag.
var ErrUnknownFamily = fmt.Errorf("unknown model family")

// Engine dispatches prediction calls to family adaptors. All fields are
// read-only after construction; an Engine is safe for concurrent use.
type Engine struct {
	reg  *families.Registry
	log  logger.Logger
	bus  *diagbus.Bus
	sink metrics.MetricsSink
}

// New creates an Engine. log, bus and sink may be nil.
func New(reg *families.Registry, log logger.Logger, bus *diagbus.Bus, sink metrics.MetricsSink) *Engine {
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{reg: reg, log: log, bus: bus, sink: sink}
}

// Default returns an engine over the built-in family registry.
func Default() *Engine {
	return New(families.Default(), nil, nil, nil)
}

// Predict computes fitted values for m according to opts. See Options for
// the defaults; the zero value predicts expectations on the training data.
func Predict(m model.Model, opts Options) (*Result, error) {
	return Default().Predict(m, opts)
}

// Predict is the single dispatch entry point.
func (e *Engine) Predict(m model.Model, opts Options) (*Result, error) {
	start := time.Now()
	opts.setDefaults()

	tag := classify.Tag(m)
	fam, ok := e.reg.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, tag)
	}

	warn := func(format string, args ...any) {
		e.log.Warnf(format, args...)
		if e.bus != nil {
			e.bus.Publish(diagbus.Diagnostic{
				Code:    diagbus.CodeIntervalDowngrade,
				Message: fmt.Sprintf(format, args...),
			})
		}
	}
	cfg, err := resolve(m, fam, opts, warn)
	if err != nil {
		return nil, err
	}

	req := families.Request{Scale: cfg.NativeScale, RandomTerms: cfg.RandomTerms}

	var (
		values   []float64
		iv       *model.Intervals
		draws    *mat.Dense
		failures int
	)
	if opts.Replicates > 0 || m.Info().Bayesian {
		predictFn := func(rm model.Model) ([]float64, error) {
			p, err := fam.Predict(rm, cfg.Data, req)
			if err != nil {
				return nil, err
			}
			return p.Values, nil
		}
		draws, failures, err = resample.Run(m, fam, cfg.Data, predictFn, opts.Replicates, resample.Options{
			Seed: opts.Seed, Workers: opts.Workers, Verbose: opts.Verbose, Log: e.log,
		})
		if err != nil {
			return nil, err
		}
		values = resample.ReduceMean(draws)
		if failures > 0 && e.bus != nil {
			e.bus.Publish(diagbus.Diagnostic{
				Code:    diagbus.CodeReplicateFailures,
				Message: fmt.Sprintf("%d of %d replicates failed to refit", failures, opts.Replicates),
			})
		}
		if !opts.NoInterval {
			iv = drawIntervals(draws, cfg.Level)
		}
	} else {
		pred, err := fam.Predict(m, cfg.Data, req)
		if err != nil {
			return nil, fmt.Errorf("%s predict: %w", tag, err)
		}
		values = pred.Values
		if !opts.NoInterval {
			iv, err = e.intervals(m, fam, pred, cfg)
			if err != nil {
				return nil, err
			}
		}
	}

	if cfg.NeedsTransform {
		link := m.Info().Link
		// Interval bounds and delta-method SEs need the link-scale point
		// predictions, so intervals transform before values.
		if err := transform.Intervals(link, values, iv); err != nil {
			return nil, fmt.Errorf("%s transform: %w", tag, err)
		}
		if err := transform.Values(link, values); err != nil {
			return nil, fmt.Errorf("%s transform: %w", tag, err)
		}
		if err := transform.Draws(link, draws); err != nil {
			return nil, fmt.Errorf("%s transform: %w", tag, err)
		}
	}

	if err := e.sink.RecordPrediction(metrics.PredictionEvent{
		Family:       tag,
		Mode:         string(cfg.Mode),
		Observations: len(values),
		Replicates:   drawWidth(draws),
		Failures:     failures,
		Duration:     time.Since(start),
	}); err != nil {
		e.log.Errorf("metrics sink: %v", err)
	}

	return &Result{
		Values:    values,
		Intervals: iv,
		Draws:     draws,
		Failures:  failures,
		Mode:      cfg.Mode,
		Level:     cfg.Level,
		Config:    cfg,
	}, nil
}

// intervals attaches uncertainty to a single-shot prediction: the family's
// native interval routine when it has one, otherwise normal-quantile bounds
// around the standard error. No SE and no native routine means no interval.
func (e *Engine) intervals(m model.Model, fam families.Family, pred families.Prediction, cfg Config) (*model.Intervals, error) {
	if ic, ok := fam.(families.IntervalComputer); ok {
		iv, err := ic.Intervals(m, pred, cfg.Data, cfg.Interval, cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("%s intervals: %w", fam.Tag(), err)
		}
		return iv, nil
	}
	if pred.SE == nil {
		return nil, nil
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - (1-cfg.Level)/2)
	iv := &model.Intervals{
		Lower: make([]float64, len(pred.Values)),
		Upper: make([]float64, len(pred.Values)),
		SE:    make([]float64, len(pred.Values)),
	}
	for i, v := range pred.Values {
		iv.SE[i] = pred.SE[i]
		iv.Lower[i] = v - z*pred.SE[i]
		iv.Upper[i] = v + z*pred.SE[i]
	}
	return iv, nil
}

// drawIntervals computes per-observation percentile bounds from the draw
// matrix. NaN replicates from failed refits are skipped here but stay in the
// matrix itself.
func drawIntervals(d *mat.Dense, level float64) *model.Intervals {
	rows, cols := d.Dims()
	iv := &model.Intervals{
		Lower: make([]float64, rows),
		Upper: make([]float64, rows),
		SE:    make([]float64, rows),
	}
	alpha := 1 - level
	buf := make([]float64, 0, cols)
	for i := 0; i < rows; i++ {
		buf = buf[:0]
		for j := 0; j < cols; j++ {
			if v := d.At(i, j); !math.IsNaN(v) {
				buf = append(buf, v)
			}
		}
		if len(buf) == 0 {
			iv.Lower[i], iv.Upper[i], iv.SE[i] = math.NaN(), math.NaN(), math.NaN()
			continue
		}
		sort.Float64s(buf)
		iv.Lower[i] = stat.Quantile(alpha/2, stat.Empirical, buf, nil)
		iv.Upper[i] = stat.Quantile(1-alpha/2, stat.Empirical, buf, nil)
		iv.SE[i] = stat.StdDev(buf, nil)
	}
	return iv
}

func drawWidth(d *mat.Dense) int {
	if d == nil {
		return 0
	}
	_, cols := d.Dims()
	return cols
}
