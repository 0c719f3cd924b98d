package families

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"statpredict/core/model"
)

const (
	irlsMaxIter = 60
	irlsTol     = 1e-9
)

// glmSpec parameterizes iteratively reweighted least squares for one
// exponential-family/link pairing.
type glmSpec struct {
	link     model.Link
	variance func(mu float64) float64
	// initEta maps a raw response to a safe starting linear predictor.
	initEta func(y float64) float64
}

// glmFit holds link-scale coefficients and their covariance.
type glmFit struct {
	coef []float64
	cov  *mat.Dense
}

// irls fits a GLM by iteratively reweighted least squares. Non-convergence
// within the iteration cap returns the last iterate with an error; bootstrap
// callers record the degenerate result rather than aborting.
func irls(x *mat.Dense, y []float64, spec glmSpec) (glmFit, error) {
	n, p := x.Dims()
	if n != len(y) {
		return glmFit{}, fmt.Errorf("glm: %d rows, %d responses", n, len(y))
	}
	eta := make([]float64, n)
	for i, v := range y {
		eta[i] = spec.initEta(v)
	}
	coef := make([]float64, p)

	xw := mat.NewDense(n, p, nil)
	zw := make([]float64, n)
	for iter := 0; iter < irlsMaxIter; iter++ {
		for i := 0; i < n; i++ {
			mu := spec.link.Inverse(eta[i])
			d := spec.link.DMuDEta(eta[i])
			v := spec.variance(mu)
			if v <= 0 || d == 0 {
				return glmFit{coef: coef}, fmt.Errorf("glm: degenerate weight at row %d", i)
			}
			w := math.Sqrt(d * d / v)
			z := eta[i] + (y[i]-mu)/d
			for j := 0; j < p; j++ {
				xw.Set(i, j, w*x.At(i, j))
			}
			zw[i] = w * z
		}
		var qr mat.QR
		qr.Factorize(xw)
		var bv mat.VecDense
		if err := qr.SolveVecTo(&bv, false, mat.NewVecDense(n, zw)); err != nil {
			return glmFit{coef: coef}, fmt.Errorf("glm solve: %w", err)
		}
		next := bv.RawVector().Data
		var delta float64
		for j := 0; j < p; j++ {
			delta = math.Max(delta, math.Abs(next[j]-coef[j]))
			coef[j] = next[j]
		}
		etaVec := linearPredictor(x, coef)
		copy(eta, etaVec)
		if delta < irlsTol {
			var xtwx mat.Dense
			xtwx.Mul(xw.T(), xw)
			var inv mat.Dense
			if err := inv.Inverse(&xtwx); err != nil {
				return glmFit{coef: coef}, fmt.Errorf("glm covariance: %w", err)
			}
			return glmFit{coef: coef, cov: &inv}, nil
		}
	}
	return glmFit{coef: coef}, fmt.Errorf("glm: no convergence in %d iterations", irlsMaxIter)
}

// glmPredict scores a design on the requested scale. Standard errors are
// produced on the link scale only; the transform stage propagates them when
// response-scale output is wanted.
func glmPredict(x *mat.Dense, fit glmFit, link model.Link, scale model.Scale) Prediction {
	eta := linearPredictor(x, fit.coef)
	var se []float64
	if fit.cov != nil {
		se = rowQuadSE(x, fit.cov)
	}
	if scale == model.ScaleResponse {
		for i, e := range eta {
			eta[i] = link.Inverse(e)
			if se != nil {
				se[i] *= math.Abs(link.DMuDEta(e))
			}
		}
	}
	return Prediction{Values: eta, SE: se}
}
