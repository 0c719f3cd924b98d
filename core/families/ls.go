package families

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// lsFit is an ordinary least-squares fit shared by the gaussian and additive
// families.
type lsFit struct {
	coef   []float64
	cov    *mat.Dense // coefficient covariance, sigma2 * (X'X)^-1
	sigma2 float64
	df     int
}

func sqrtNonNeg(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// fitLS solves min ||y - X b|| by QR and derives the residual variance and
// coefficient covariance.
func fitLS(x *mat.Dense, y []float64) (lsFit, error) {
	n, p := x.Dims()
	if n != len(y) {
		return lsFit{}, fmt.Errorf("ls: %d rows, %d responses", n, len(y))
	}
	if n <= p {
		return lsFit{}, fmt.Errorf("ls: %d observations for %d parameters", n, p)
	}
	var qr mat.QR
	qr.Factorize(x)
	yv := mat.NewVecDense(n, y)
	var bv mat.VecDense
	if err := qr.SolveVecTo(&bv, false, yv); err != nil {
		return lsFit{}, fmt.Errorf("ls solve: %w", err)
	}
	coef := make([]float64, p)
	copy(coef, bv.RawVector().Data)

	fitted := linearPredictor(x, coef)
	var rss float64
	for i, f := range fitted {
		r := y[i] - f
		rss += r * r
	}
	df := n - p
	sigma2 := rss / float64(df)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return lsFit{}, fmt.Errorf("ls covariance: %w", err)
	}
	inv.Scale(sigma2, &inv)
	return lsFit{coef: coef, cov: &inv, sigma2: sigma2, df: df}, nil
}

// predict returns fitted values and standard errors of the mean for the
// design x.
func (f lsFit) predict(x *mat.Dense) ([]float64, []float64) {
	return linearPredictor(x, f.coef), rowQuadSE(x, f.cov)
}
