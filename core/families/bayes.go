package families

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"statpredict/core/model"
)

// BayesModel is a gaussian model whose uncertainty lives in a matrix of
// posterior coefficient draws (one row per draw). No refitting happens for
// resampling; predictions are scored against the stored draws.
type BayesModel struct {
	roles model.Roles
	data  *model.Frame
	mean  []float64  // posterior mean coefficients
	draws *mat.Dense // ndraws x p
}

// NewBayesGaussian builds a Bayesian handle from a least-squares fit by
// sampling coefficient draws from the normal approximation N(coef, cov).
func NewBayesGaussian(g *GaussianModel, ndraws int, seed int64) (*BayesModel, error) {
	if ndraws <= 0 {
		return nil, fmt.Errorf("bayes: ndraws must be positive")
	}
	p := len(g.fit.coef)
	sym := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sym.SetSym(i, j, g.fit.cov.At(i, j))
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("bayes: coefficient covariance not positive definite")
	}
	var lower mat.TriDense
	chol.LTo(&lower)

	rng := rand.New(rand.NewSource(seed))
	draws := mat.NewDense(ndraws, p, nil)
	z := mat.NewVecDense(p, nil)
	var d mat.VecDense
	for k := 0; k < ndraws; k++ {
		for j := 0; j < p; j++ {
			z.SetVec(j, rng.NormFloat64())
		}
		d.MulVec(&lower, z)
		for j := 0; j < p; j++ {
			draws.Set(k, j, g.fit.coef[j]+d.AtVec(j))
		}
	}
	mean := make([]float64, p)
	copy(mean, g.fit.coef)
	return &BayesModel{roles: g.roles, data: g.data.Clone(), mean: mean, draws: draws}, nil
}

func (m *BayesModel) Info() model.Info {
	return model.Info{
		Family:   "bayes",
		Linear:   true,
		Bayesian: true,
		Link:     model.IdentityLink(),
		Roles:    m.roles,
	}
}

func (m *BayesModel) TrainingData() *model.Frame { return m.data }

// DrawCount returns the native number of posterior draws.
func (m *BayesModel) DrawCount() int {
	n, _ := m.draws.Dims()
	return n
}

// Bayes is the family adaptor for posterior-draw handles.
type Bayes struct{}

func (Bayes) Tag() string { return "bayes" }

// Caps marks the drop-column branch: posterior-sampling routines reject null
// cells in new data, so excluded random-effect columns are removed outright.
func (Bayes) Caps() Caps { return Caps{DropNullRandom: true} }

// Predict scores data with the posterior mean coefficients; the SE column is
// the per-observation standard deviation across posterior draws.
func (Bayes) Predict(m model.Model, data *model.Frame, req Request) (Prediction, error) {
	bm, ok := m.(*BayesModel)
	if !ok {
		return Prediction{}, fmt.Errorf("bayes: unexpected handle %T", m)
	}
	x, err := designMatrix(data, bm.roles.Fixed, bm.roles.Smooth)
	if err != nil {
		return Prediction{}, err
	}
	vals := linearPredictor(x, bm.mean)

	all, err := Bayes{}.Draws(m, data, 0)
	if err != nil {
		return Prediction{}, err
	}
	n, _ := all.Dims()
	se := make([]float64, n)
	for i := 0; i < n; i++ {
		se[i] = stat.StdDev(mat.Row(nil, i, all), nil)
	}
	return Prediction{Values: vals, SE: se}, nil
}

// Refit is not meaningful for a posterior handle; the resampling engine never
// calls it for Bayesian families.
func (Bayes) Refit(m model.Model, data *model.Frame) (model.Model, error) {
	return nil, fmt.Errorf("bayes: refit not supported for posterior handles")
}

// Draws returns an observations x draws matrix of predictions, one column per
// posterior draw. n <= 0 or n >= the native count uses every draw; otherwise
// an evenly spaced subsample of n draws is taken.
func (Bayes) Draws(m model.Model, data *model.Frame, n int) (*mat.Dense, error) {
	bm, ok := m.(*BayesModel)
	if !ok {
		return nil, fmt.Errorf("bayes: unexpected handle %T", m)
	}
	x, err := designMatrix(data, bm.roles.Fixed, bm.roles.Smooth)
	if err != nil {
		return nil, err
	}
	total, p := bm.draws.Dims()
	if n <= 0 || n > total {
		n = total
	}
	rows := data.Rows()
	out := mat.NewDense(rows, n, nil)
	coef := make([]float64, p)
	for j := 0; j < n; j++ {
		idx := j * total / n
		mat.Row(coef, idx, bm.draws)
		col := linearPredictor(x, coef)
		out.SetCol(j, col)
	}
	return out, nil
}
