// Package resample produces replicate prediction vectors for uncertainty
// estimation. Replicates are independent and fan out across goroutines; each
// replicate derives its own RNG from the base seed so parallel runs stay
// reproducible. A refit that fails is recorded as an all-NaN column, never
// retried or excluded — callers wanting robustness must post-filter the draw
// matrix.
package resample

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"statpredict/core/families"
	"statpredict/core/logger"
	"statpredict/core/model"
)

// PredictFn scores a (re)fitted model against the engine's resolved target
// data and returns one replicate prediction vector.
type PredictFn func(m model.Model) ([]float64, error)

// Options tunes a resampling run.
type Options struct {
	// Seed is the base RNG seed; replicate i derives Seed+i. Zero draws a
	// seed from the clock.
	Seed int64
	// Workers caps concurrent replicates; <= 0 means GOMAXPROCS.
	Workers int
	// Verbose surfaces per-replicate refit failures through Log.
	Verbose bool
	Log     logger.Logger
}

// Run produces a draw matrix with one row per observation of the target data
// and one column per replicate. The strategy is chosen by family: Bayesian
// handles reuse their posterior draws, mixed models with a Simulator refit
// through parametric simulation, and everything else case-resamples the
// training data with replacement. The failure count reports replicates whose
// refit or scoring failed and were recorded as NaN columns.
func Run(m model.Model, fam families.Family, data *model.Frame, predict PredictFn, b int, opt Options) (*mat.Dense, int, error) {
	if opt.Log == nil {
		opt.Log = logger.Nop{}
	}
	rows := data.Rows()
	if ps, ok := fam.(families.PosteriorSampler); ok && m.Info().Bayesian {
		d, err := ps.Draws(m, data, b)
		if err != nil {
			return nil, 0, fmt.Errorf("posterior draws: %w", err)
		}
		return d, 0, nil
	}
	if b <= 0 {
		return nil, 0, fmt.Errorf("resample: replicate count must be positive")
	}
	seed := opt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sim, isSim := fam.(families.Simulator)
	useSim := isSim && m.Info().Mixed
	train := m.TrainingData()

	draws := mat.NewDense(rows, b, nil)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	sem := make(chan struct{}, workers)
	for i := 0; i < b; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			rng := rand.New(rand.NewSource(seed + int64(i)))
			vals, err := replicate(m, fam, sim, useSim, train, predict, rng)
			if err != nil {
				if opt.Verbose {
					opt.Log.Warnf("replicate %d failed: %v", i, err)
				}
				vals = nanVector(rows)
				mu.Lock()
				failures++
				mu.Unlock()
			}
			draws.SetCol(i, vals)
		}(i)
	}
	wg.Wait()
	return draws, failures, nil
}

func replicate(m model.Model, fam families.Family, sim families.Simulator, useSim bool, train *model.Frame, predict PredictFn, rng *rand.Rand) ([]float64, error) {
	var (
		refit model.Model
		err   error
	)
	if useSim {
		refit, err = sim.SimulateRefit(m, rng)
	} else {
		n := train.Rows()
		idx := make([]int, n)
		for j := range idx {
			idx[j] = rng.Intn(n)
		}
		refit, err = fam.Refit(m, train.Subset(idx))
	}
	if err != nil {
		return nil, err
	}
	return predict(refit)
}

func nanVector(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// ReduceMean collapses a draw matrix to a point-estimate vector by taking the
// per-observation mean across replicates.
func ReduceMean(d *mat.Dense) []float64 {
	return Reduce(d, func(row []float64) float64 { return stat.Mean(row, nil) })
}

// Reduce collapses a draw matrix with a custom per-observation location
// estimator, e.g. a posterior median.
func Reduce(d *mat.Dense, f func(row []float64) float64) []float64 {
	rows, cols := d.Dims()
	out := make([]float64, rows)
	buf := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(buf, i, d)
		out[i] = f(buf)
	}
	return out
}
