package families

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"statpredict/core/model"
)

// AdditiveModel is a gaussian additive model: fixed linear terms plus a
// polynomial basis per smooth term, fitted by least squares.
type AdditiveModel struct {
	roles model.Roles
	data  *model.Frame
	fit   lsFit
}

// FitAdditive fits an additive model of response on fixed predictors and
// smooth terms.
func FitAdditive(data *model.Frame, response string, fixed, smooth []string) (*AdditiveModel, error) {
	roles := model.Roles{Response: response, Fixed: fixed, Smooth: smooth}
	x, err := designMatrix(data, roles.Fixed, roles.Smooth)
	if err != nil {
		return nil, err
	}
	y, err := data.Floats(response)
	if err != nil {
		return nil, err
	}
	fit, err := fitLS(x, y)
	if err != nil {
		return nil, err
	}
	return &AdditiveModel{roles: roles, data: data.Clone(), fit: fit}, nil
}

func (m *AdditiveModel) Info() model.Info {
	return model.Info{
		Family: "additive",
		Linear: true,
		Link:   model.IdentityLink(),
		Roles:  m.roles,
	}
}

func (m *AdditiveModel) TrainingData() *model.Frame { return m.data }

// Additive is the family adaptor for additive models.
type Additive struct{}

func (Additive) Tag() string { return "additive" }

func (Additive) Caps() Caps { return Caps{PredictionIntervals: true} }

func (Additive) Predict(m model.Model, data *model.Frame, req Request) (Prediction, error) {
	am, ok := m.(*AdditiveModel)
	if !ok {
		return Prediction{}, fmt.Errorf("additive: unexpected handle %T", m)
	}
	x, err := designMatrix(data, am.roles.Fixed, am.roles.Smooth)
	if err != nil {
		return Prediction{}, err
	}
	vals, se := am.fit.predict(x)
	return Prediction{Values: vals, SE: se}, nil
}

func (Additive) Refit(m model.Model, data *model.Frame) (model.Model, error) {
	am, ok := m.(*AdditiveModel)
	if !ok {
		return nil, fmt.Errorf("additive: unexpected handle %T", m)
	}
	return FitAdditive(data, am.roles.Response, am.roles.Fixed, am.roles.Smooth)
}

func (Additive) Intervals(m model.Model, pred Prediction, data *model.Frame, kind model.IntervalKind, level float64) (*model.Intervals, error) {
	am, ok := m.(*AdditiveModel)
	if !ok {
		return nil, fmt.Errorf("additive: unexpected handle %T", m)
	}
	if pred.SE == nil {
		return nil, nil
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(am.fit.df)}
	q := t.Quantile(1 - (1-level)/2)
	iv := &model.Intervals{
		Lower: make([]float64, len(pred.Values)),
		Upper: make([]float64, len(pred.Values)),
		SE:    make([]float64, len(pred.Values)),
	}
	for i, v := range pred.Values {
		se := pred.SE[i]
		if kind == model.IntervalPrediction {
			se = sqrtNonNeg(se*se + am.fit.sigma2)
		}
		iv.SE[i] = se
		iv.Lower[i] = v - q*se
		iv.Upper[i] = v + q*se
	}
	return iv, nil
}
