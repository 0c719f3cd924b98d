package families

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"statpredict/core/model"
)

// GaussianModel is an ordinary least-squares fit.
type GaussianModel struct {
	roles model.Roles
	data  *model.Frame
	fit   lsFit
}

// FitGaussian fits a linear model of response on the fixed predictors.
func FitGaussian(data *model.Frame, response string, predictors []string) (*GaussianModel, error) {
	roles := model.Roles{Response: response, Fixed: predictors}
	x, err := designMatrix(data, roles.Fixed, nil)
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
	return &GaussianModel{roles: roles, data: data.Clone(), fit: fit}, nil
}

func (m *GaussianModel) Info() model.Info {
	return model.Info{
		Family: "gaussian",
		Linear: true,
		Link:   model.IdentityLink(),
		Roles:  m.roles,
	}
}

func (m *GaussianModel) TrainingData() *model.Frame { return m.data }

// Coefficients returns the fitted coefficients, intercept first.
func (m *GaussianModel) Coefficients() []float64 {
	out := make([]float64, len(m.fit.coef))
	copy(out, m.fit.coef)
	return out
}

// ResidualVariance returns the estimated error variance.
func (m *GaussianModel) ResidualVariance() float64 { return m.fit.sigma2 }

// Gaussian is the family adaptor for linear models.
type Gaussian struct{}

func (Gaussian) Tag() string { return "gaussian" }

func (Gaussian) Caps() Caps { return Caps{PredictionIntervals: true} }

func (Gaussian) Predict(m model.Model, data *model.Frame, req Request) (Prediction, error) {
	gm, ok := m.(*GaussianModel)
	if !ok {
		return Prediction{}, fmt.Errorf("gaussian: unexpected handle %T", m)
	}
	x, err := designMatrix(data, gm.roles.Fixed, nil)
	if err != nil {
		return Prediction{}, err
	}
	vals, se := gm.fit.predict(x)
	return Prediction{Values: vals, SE: se}, nil
}

func (Gaussian) Refit(m model.Model, data *model.Frame) (model.Model, error) {
	gm, ok := m.(*GaussianModel)
	if !ok {
		return nil, fmt.Errorf("gaussian: unexpected handle %T", m)
	}
	return FitGaussian(data, gm.roles.Response, gm.roles.Fixed)
}

// Intervals computes t-based intervals. Prediction-kind intervals widen the
// standard error by the residual variance.
func (Gaussian) Intervals(m model.Model, pred Prediction, data *model.Frame, kind model.IntervalKind, level float64) (*model.Intervals, error) {
	gm, ok := m.(*GaussianModel)
	if !ok {
		return nil, fmt.Errorf("gaussian: unexpected handle %T", m)
	}
	if pred.SE == nil {
		return nil, nil
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(gm.fit.df)}
	q := t.Quantile(1 - (1-level)/2)
	iv := &model.Intervals{
		Lower: make([]float64, len(pred.Values)),
		Upper: make([]float64, len(pred.Values)),
		SE:    make([]float64, len(pred.Values)),
	}
	for i, v := range pred.Values {
		se := pred.SE[i]
		if kind == model.IntervalPrediction {
			se = sqrtNonNeg(se*se + gm.fit.sigma2)
		}
		iv.SE[i] = se
		iv.Lower[i] = v - q*se
		iv.Upper[i] = v + q*se
	}
	return iv, nil
}
