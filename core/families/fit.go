package families

import (
	"fmt"

	"statpredict/core/model"
)

// Spec describes a model to fit. It is the request surface shared by the CLI
// and the HTTP API.
type Spec struct {
	// Family is the registry tag: gaussian, binomial, poisson, mixed,
	// additive or bayes.
	Family     string   `json:"family"`
	Response   string   `json:"response"`
	Predictors []string `json:"predictors"`
	// Group names the grouping column for mixed models.
	Group string `json:"group,omitempty"`
	// Smooth names the smooth-term columns for additive models.
	Smooth []string `json:"smooth,omitempty"`
	// Draws is the posterior draw count for bayes handles; defaults to 1000.
	Draws int `json:"draws,omitempty"`
	// Seed fixes the posterior sampler for bayes handles.
	Seed int64 `json:"seed,omitempty"`
}

// Fit fits the specified model on data and returns its handle.
func Fit(spec Spec, data *model.Frame) (model.Model, error) {
	switch spec.Family {
	case "gaussian":
		return FitGaussian(data, spec.Response, spec.Predictors)
	case "binomial":
		return FitBinomial(data, spec.Response, spec.Predictors)
	case "poisson":
		return FitPoisson(data, spec.Response, spec.Predictors)
	case "mixed":
		if spec.Group == "" {
			return nil, fmt.Errorf("mixed models require a group column")
		}
		return FitMixed(data, spec.Response, spec.Predictors, spec.Group)
	case "additive":
		return FitAdditive(data, spec.Response, spec.Predictors, spec.Smooth)
	case "bayes":
		g, err := FitGaussian(data, spec.Response, spec.Predictors)
		if err != nil {
			return nil, err
		}
		draws := spec.Draws
		if draws <= 0 {
			draws = 1000
		}
		seed := spec.Seed
		if seed == 0 {
			seed = 1
		}
		return NewBayesGaussian(g, draws, seed)
	}
	return nil, fmt.Errorf("unknown family %q", spec.Family)
}
