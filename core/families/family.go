package families

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"statpredict/core/model"
)

// Request carries the scale and random-effect selection resolved by the
// argument normalizer down to a family's native prediction routine.
type Request struct {
	// Scale is the scale the native routine should produce output on.
	Scale model.Scale
	// RandomTerms selects random-effect terms: nil means the native default
	// (all terms), an empty non-nil slice means none, and a non-empty slice
	// is an explicit subset.
	RandomTerms []string
}

// IncludesRandom reports whether the request includes the named term.
func (r Request) IncludesRandom(term string) bool {
	if r.RandomTerms == nil {
		return true
	}
	for _, t := range r.RandomTerms {
		if t == term {
			return true
		}
	}
	return false
}

// Prediction is a native prediction vector with an optional standard-error
// column on the same scale.
type Prediction struct {
	Values []float64
	SE     []float64
}

// Caps describes per-family capabilities the normalizer branches on.
type Caps struct {
	// PredictionIntervals is true when the family can produce intervals for
	// a new observation rather than only for the mean.
	PredictionIntervals bool
	// DropNullRandom is true for families whose native routines reject
	// null cells in new data; excluded random-effect columns are dropped
	// instead of overwritten with nulls.
	DropNullRandom bool
}

// Family is the adaptor contract every supported family implements.
type Family interface {
	Tag() string
	Caps() Caps
	// Predict scores data with the model's native prediction routine.
	Predict(m model.Model, data *model.Frame, req Request) (Prediction, error)
	// Refit fits a new model of the same family and formula on data.
	Refit(m model.Model, data *model.Frame) (model.Model, error)
}

// IntervalComputer is implemented by families with native interval machinery.
type IntervalComputer interface {
	Intervals(m model.Model, pred Prediction, data *model.Frame, kind model.IntervalKind, level float64) (*model.Intervals, error)
}

// Simulator is implemented by mixed-model families supporting parametric
// resampling: simulate a response conditional on the estimated random
// effects, refit, and return the refit handle.
type Simulator interface {
	SimulateRefit(m model.Model, rng *rand.Rand) (model.Model, error)
}

// PosteriorSampler is implemented by Bayesian families. Draws returns a
// matrix of native-scale predictions, one column per posterior draw; n <= 0
// requests the model's full native draw count.
type PosteriorSampler interface {
	Draws(m model.Model, data *model.Frame, n int) (*mat.Dense, error)
}
