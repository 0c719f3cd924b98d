// Package transform maps predictions and their uncertainty from the link
// scale to the response scale. Interval bounds pass through the inverse link
// directly (valid because every supported link is monotone); bare standard
// errors are rescaled by the first-order delta method using the derivative of
// the inverse link at the predicted link value.
package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"statpredict/core/model"
)

// Values maps a link-scale prediction vector to the response scale in place.
func Values(l model.Link, eta []float64) error {
	if err := l.ValidateTransform(); err != nil {
		return err
	}
	for i, e := range eta {
		eta[i] = l.Inverse(e)
	}
	return nil
}

// Intervals maps link-scale interval data to the response scale in place.
// eta must be the link-scale point predictions the intervals belong to; it is
// needed to evaluate the delta-method derivative and is not modified.
func Intervals(l model.Link, eta []float64, iv *model.Intervals) error {
	if iv == nil {
		return nil
	}
	if err := l.ValidateTransform(); err != nil {
		return err
	}
	for i := range iv.Lower {
		iv.Lower[i] = l.Inverse(iv.Lower[i])
		iv.Upper[i] = l.Inverse(iv.Upper[i])
	}
	if iv.SE != nil {
		for i := range iv.SE {
			iv.SE[i] *= math.Abs(l.DMuDEta(eta[i]))
		}
	}
	return nil
}

// SE applies the delta method to a bare standard-error vector in place.
func SE(l model.Link, eta, se []float64) error {
	if err := l.ValidateTransform(); err != nil {
		return err
	}
	for i := range se {
		se[i] *= math.Abs(l.DMuDEta(eta[i]))
	}
	return nil
}

// Draws maps every cell of a draw matrix through the inverse link in place.
func Draws(l model.Link, d *mat.Dense) error {
	if d == nil {
		return nil
	}
	if err := l.ValidateTransform(); err != nil {
		return err
	}
	rows, cols := d.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d.Set(i, j, l.Inverse(d.At(i, j)))
		}
	}
	return nil
}
