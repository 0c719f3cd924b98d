package families

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"statpredict/core/model"
)

// smoothDegree is the polynomial basis order used for smooth terms.
const smoothDegree = 3

// designMatrix builds the n x p design for the given roles: a leading
// intercept column, the fixed predictors in order, then a polynomial basis
// per smooth term. Null cells in any used column are an error.
func designMatrix(data *model.Frame, fixed, smooth []string) (*mat.Dense, error) {
	n := data.Rows()
	p := 1 + len(fixed) + smoothDegree*len(smooth)
	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
	}
	col := 1
	for _, name := range fixed {
		vals, err := data.Floats(name)
		if err != nil {
			return nil, fmt.Errorf("design: %w", err)
		}
		for i, v := range vals {
			x.Set(i, col, v)
		}
		col++
	}
	for _, name := range smooth {
		vals, err := data.Floats(name)
		if err != nil {
			return nil, fmt.Errorf("design: %w", err)
		}
		for i, v := range vals {
			b := v
			for d := 0; d < smoothDegree; d++ {
				x.Set(i, col+d, b)
				b *= v
			}
		}
		col += smoothDegree
	}
	return x, nil
}

// linearPredictor returns X * coef.
func linearPredictor(x *mat.Dense, coef []float64) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	v := mat.NewVecDense(len(coef), coef)
	res := mat.NewVecDense(n, out)
	res.MulVec(x, v)
	return out
}

// rowQuadSE returns sqrt(x_i' C x_i) per row, the standard error of the
// linear predictor under coefficient covariance C.
func rowQuadSE(x *mat.Dense, cov *mat.Dense) []float64 {
	n, p := x.Dims()
	out := make([]float64, n)
	tmp := mat.NewVecDense(p, nil)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		rv := mat.NewVecDense(p, row)
		tmp.MulVec(cov, rv)
		out[i] = sqrtNonNeg(mat.Dot(rv, tmp))
	}
	return out
}
