package families

import (
	"fmt"
	"math"

	"statpredict/core/model"
)

// PoissonModel is a log-link count regression fit.
type PoissonModel struct {
	roles model.Roles
	data  *model.Frame
	fit   glmFit
}

// FitPoisson fits a Poisson GLM with the log link. The response must be
// non-negative.
func FitPoisson(data *model.Frame, response string, predictors []string) (*PoissonModel, error) {
	roles := model.Roles{Response: response, Fixed: predictors}
	x, err := designMatrix(data, roles.Fixed, nil)
	if err != nil {
		return nil, err
	}
	y, err := data.Floats(response)
	if err != nil {
		return nil, err
	}
	for i, v := range y {
		if v < 0 {
			return nil, fmt.Errorf("poisson: negative response at row %d", i)
		}
	}
	spec := glmSpec{
		link:     model.LogLink(),
		variance: func(mu float64) float64 { return mu },
		initEta:  func(y float64) float64 { return math.Log(y + 0.5) },
	}
	fit, err := irls(x, y, spec)
	if err != nil {
		return nil, err
	}
	return &PoissonModel{roles: roles, data: data.Clone(), fit: fit}, nil
}

func (m *PoissonModel) Info() model.Info {
	return model.Info{
		Family: "poisson",
		Linear: false,
		Link:   model.LogLink(),
		Roles:  m.roles,
	}
}

func (m *PoissonModel) TrainingData() *model.Frame { return m.data }

// Poisson is the family adaptor for count regression.
type Poisson struct{}

func (Poisson) Tag() string { return "poisson" }

func (Poisson) Caps() Caps { return Caps{} }

func (Poisson) Predict(m model.Model, data *model.Frame, req Request) (Prediction, error) {
	pm, ok := m.(*PoissonModel)
	if !ok {
		return Prediction{}, fmt.Errorf("poisson: unexpected handle %T", m)
	}
	x, err := designMatrix(data, pm.roles.Fixed, nil)
	if err != nil {
		return Prediction{}, err
	}
	return glmPredict(x, pm.fit, model.LogLink(), req.Scale), nil
}

func (Poisson) Refit(m model.Model, data *model.Frame) (model.Model, error) {
	pm, ok := m.(*PoissonModel)
	if !ok {
		return nil, fmt.Errorf("poisson: unexpected handle %T", m)
	}
	return FitPoisson(data, pm.roles.Response, pm.roles.Fixed)
}
