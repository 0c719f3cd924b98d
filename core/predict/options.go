package predict

import (
	"fmt"

	"statpredict/core/model"
)

// Mode selects what a prediction call produces.
type Mode string

const (
	// ModeLink returns the linear predictor on the link scale with
	// confidence-kind intervals.
	ModeLink Mode = "link"
	// ModeExpectation returns the expected value on the response scale with
	// confidence-kind intervals. This is the default.
	ModeExpectation Mode = "expectation"
	// ModePrediction returns response-scale values with prediction-kind
	// intervals covering a new observation.
	ModePrediction Mode = "prediction"

	// modeRelation is a deprecated synonym for ModeExpectation.
	modeRelation Mode = "relation"
)

// ErrUnknownMode is returned for an output mode that is not recognized after
// alias resolution.
var ErrUnknownMode = fmt.Errorf("unknown output mode")

func canonicalMode(m Mode) (Mode, error) {
	switch m {
	case "":
		return ModeExpectation, nil
	case modeRelation:
		return ModeExpectation, nil
	case ModeLink, ModeExpectation, ModePrediction:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
}

// RandomSpec selects which random-effect terms enter a prediction. The zero
// value includes all terms.
type RandomSpec struct {
	// Exclude drops every random-effect term.
	Exclude bool
	// Terms is an explicit subset to include; empty means all.
	Terms []string
}

// Options configures one prediction call. The zero value requests
// expectation-mode output on the model's own training data with a 0.95
// confidence level, all random and smooth terms included, and no resampling.
type Options struct {
	Mode Mode
	// Data overrides the model's training data as prediction target.
	Data *model.Frame
	// Level is the confidence level; zero means the 0.95 default.
	Level float64
	// NoInterval skips interval computation entirely.
	NoInterval bool
	Random     RandomSpec
	// NoSmooths pins every smooth term to its training mean.
	NoSmooths bool
	// Replicates requests a resampled draw matrix of that width; zero means
	// a single-shot native prediction (Bayesian handles always produce
	// their native posterior draws).
	Replicates int
	// Seed feeds the resampling RNG; zero draws from the clock.
	Seed int64
	// Workers caps resampling concurrency; zero means GOMAXPROCS.
	Workers int
	// Verbose surfaces per-replicate refit failures in the log.
	Verbose bool
}

func (o *Options) setDefaults() {
	if o.Level == 0 {
		o.Level = 0.95
	}
}
