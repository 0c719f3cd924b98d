package families

import (
	"fmt"

	"statpredict/core/model"
)

// BinomialModel is a logistic regression fit. Coefficients live on the logit
// scale.
type BinomialModel struct {
	roles model.Roles
	data  *model.Frame
	fit   glmFit
}

// FitBinomial fits a binomial GLM with the logit link. The response column
// must hold values in [0, 1].
func FitBinomial(data *model.Frame, response string, predictors []string) (*BinomialModel, error) {
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
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("binomial: response out of [0,1] at row %d", i)
		}
	}
	spec := glmSpec{
		link:     model.LogitLink(),
		variance: func(mu float64) float64 { return mu * (1 - mu) },
		initEta: func(y float64) float64 {
			p := (y + 0.5) / 2
			return model.LogitLink().Eval(p)
		},
	}
	fit, err := irls(x, y, spec)
	if err != nil {
		return nil, err
	}
	return &BinomialModel{roles: roles, data: data.Clone(), fit: fit}, nil
}

func (m *BinomialModel) Info() model.Info {
	return model.Info{
		Family: "binomial",
		Linear: false,
		Link:   model.LogitLink(),
		Roles:  m.roles,
	}
}

func (m *BinomialModel) TrainingData() *model.Frame { return m.data }

// Coefficients returns the logit-scale coefficients, intercept first.
func (m *BinomialModel) Coefficients() []float64 {
	out := make([]float64, len(m.fit.coef))
	copy(out, m.fit.coef)
	return out
}

// Binomial is the family adaptor for logistic regression.
type Binomial struct{}

func (Binomial) Tag() string { return "binomial" }

func (Binomial) Caps() Caps { return Caps{} }

func (Binomial) Predict(m model.Model, data *model.Frame, req Request) (Prediction, error) {
	bm, ok := m.(*BinomialModel)
	if !ok {
		return Prediction{}, fmt.Errorf("binomial: unexpected handle %T", m)
	}
	x, err := designMatrix(data, bm.roles.Fixed, nil)
	if err != nil {
		return Prediction{}, err
	}
	return glmPredict(x, bm.fit, model.LogitLink(), req.Scale), nil
}

func (Binomial) Refit(m model.Model, data *model.Frame) (model.Model, error) {
	bm, ok := m.(*BinomialModel)
	if !ok {
		return nil, fmt.Errorf("binomial: unexpected handle %T", m)
	}
	return FitBinomial(data, bm.roles.Response, bm.roles.Fixed)
}
