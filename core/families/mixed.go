package families

import (
	"fmt"
	"math/rand"

	"statpredict/core/model"
)

// MixedModel is a random-intercept linear mixed model with a single grouping
// column. Fixed effects come from an OLS fit; group intercepts are shrunken
// group-mean residuals with moment-based variance components.
type MixedModel struct {
	roles  model.Roles
	data   *model.Frame
	fit    lsFit
	group  string
	u      map[float64]float64 // group code -> estimated intercept
	sigma2 float64             // residual variance
	tau2   float64             // between-group variance
}

// FitMixed fits a random-intercept model of response on the fixed predictors,
// grouped by the group column.
func FitMixed(data *model.Frame, response string, predictors []string, group string) (*MixedModel, error) {
	roles := model.Roles{Response: response, Fixed: predictors, Random: []string{group}}
	x, err := designMatrix(data, roles.Fixed, nil)
	if err != nil {
		return nil, err
	}
	y, err := data.Floats(response)
	if err != nil {
		return nil, err
	}
	g, err := data.Floats(group)
	if err != nil {
		return nil, err
	}
	fit, err := fitLS(x, y)
	if err != nil {
		return nil, err
	}

	fitted := linearPredictor(x, fit.coef)
	sums := make(map[float64]float64)
	counts := make(map[float64]int)
	for i := range y {
		sums[g[i]] += y[i] - fitted[i]
		counts[g[i]]++
	}

	// Moment estimates: within-group variance from the OLS residual
	// variance, between-group variance from the spread of group means.
	var between, avgN float64
	for code, s := range sums {
		m := s / float64(counts[code])
		between += m * m
		avgN += float64(counts[code])
	}
	k := float64(len(sums))
	between /= k
	avgN /= k
	sigma2 := fit.sigma2
	tau2 := between - sigma2/avgN
	if tau2 < 0 {
		tau2 = 0
	}

	u := make(map[float64]float64, len(sums))
	for code, s := range sums {
		n := float64(counts[code])
		shrink := 0.0
		if tau2 > 0 {
			shrink = tau2 / (tau2 + sigma2/n)
		}
		u[code] = shrink * s / n
	}

	return &MixedModel{
		roles: roles, data: data.Clone(), fit: fit,
		group: group, u: u, sigma2: sigma2, tau2: tau2,
	}, nil
}

func (m *MixedModel) Info() model.Info {
	return model.Info{
		Family: "mixed",
		Linear: true,
		Mixed:  true,
		Link:   model.IdentityLink(),
		Roles:  m.roles,
	}
}

func (m *MixedModel) TrainingData() *model.Frame { return m.data }

// RandomIntercept returns the estimated intercept for a group code.
func (m *MixedModel) RandomIntercept(code float64) float64 { return m.u[code] }

// Mixed is the family adaptor for random-intercept models.
type Mixed struct{}

func (Mixed) Tag() string { return "mixed" }

func (Mixed) Caps() Caps { return Caps{} }

// Predict scores data with the fixed part, adding the group intercept when
// the request includes the grouping term and the group cell is present and
// known. Unknown or null groups fall back to the population-level value.
func (Mixed) Predict(m model.Model, data *model.Frame, req Request) (Prediction, error) {
	mm, ok := m.(*MixedModel)
	if !ok {
		return Prediction{}, fmt.Errorf("mixed: unexpected handle %T", m)
	}
	x, err := designMatrix(data, mm.roles.Fixed, nil)
	if err != nil {
		return Prediction{}, err
	}
	vals, se := mm.fit.predict(x)
	if req.IncludesRandom(mm.group) {
		if col, ok := data.Column(mm.group); ok {
			for i, cell := range col {
				if cell.Valid {
					vals[i] += mm.u[cell.Float]
				}
			}
		}
	}
	return Prediction{Values: vals, SE: se}, nil
}

func (Mixed) Refit(m model.Model, data *model.Frame) (model.Model, error) {
	mm, ok := m.(*MixedModel)
	if !ok {
		return nil, fmt.Errorf("mixed: unexpected handle %T", m)
	}
	return FitMixed(data, mm.roles.Response, mm.roles.Fixed, mm.group)
}

// SimulateRefit draws a new response conditional on the estimated random
// effects (y* = Xb + Zu + e*, e* ~ N(0, sigma2)) and refits on the training
// data with the simulated response.
func (f Mixed) SimulateRefit(m model.Model, rng *rand.Rand) (model.Model, error) {
	mm, ok := m.(*MixedModel)
	if !ok {
		return nil, fmt.Errorf("mixed: unexpected handle %T", m)
	}
	train := mm.data
	x, err := designMatrix(train, mm.roles.Fixed, nil)
	if err != nil {
		return nil, err
	}
	fitted := linearPredictor(x, mm.fit.coef)
	g, err := train.Floats(mm.group)
	if err != nil {
		return nil, err
	}
	sd := sqrtNonNeg(mm.sigma2)
	sim := make([]float64, len(fitted))
	for i := range fitted {
		sim[i] = fitted[i] + mm.u[g[i]] + sd*rng.NormFloat64()
	}
	data := train.Clone()
	if err := data.SetFloats(mm.roles.Response, sim); err != nil {
		return nil, err
	}
	return FitMixed(data, mm.roles.Response, mm.roles.Fixed, mm.group)
}
