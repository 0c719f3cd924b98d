package model

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrIncompleteLink is returned when a scale transform is required but the
// family's link lacks an inverse or a derivative.
var ErrIncompleteLink = errors.New("link function missing inverse or derivative")

// Link maps between the linear-predictor (link) scale and the response scale.
// Inverse and DMuDEta both take a value on the link scale; DMuDEta is the
// derivative of the inverse link, used for delta-method variance propagation.
type Link struct {
	Name    string
	Eval    func(mu float64) float64
	Inverse func(eta float64) float64
	DMuDEta func(eta float64) float64
}

// ValidateTransform reports whether the link can support a link-to-response
// transform with standard-error propagation.
func (l Link) ValidateTransform() error {
	if l.Inverse == nil || l.DMuDEta == nil {
		return ErrIncompleteLink
	}
	return nil
}

// IdentityLink is the gaussian link.
func IdentityLink() Link {
	return Link{
		Name:    "identity",
		Eval:    func(mu float64) float64 { return mu },
		Inverse: func(eta float64) float64 { return eta },
		DMuDEta: func(float64) float64 { return 1 },
	}
}

// LogitLink maps probabilities to log-odds.
func LogitLink() Link {
	return Link{
		Name: "logit",
		Eval: func(mu float64) float64 { return math.Log(mu / (1 - mu)) },
		Inverse: func(eta float64) float64 {
			return 1 / (1 + math.Exp(-eta))
		},
		DMuDEta: func(eta float64) float64 {
			p := 1 / (1 + math.Exp(-eta))
			return p * (1 - p)
		},
	}
}

// LogLink maps positive means to the real line.
func LogLink() Link {
	return Link{
		Name:    "log",
		Eval:    math.Log,
		Inverse: math.Exp,
		DMuDEta: math.Exp,
	}
}

// ProbitLink uses the standard normal CDF as inverse.
func ProbitLink() Link {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return Link{
		Name:    "probit",
		Eval:    n.Quantile,
		Inverse: n.CDF,
		DMuDEta: n.Prob,
	}
}

// InverseLink is the canonical gamma link.
func InverseLink() Link {
	inv := func(x float64) float64 { return 1 / x }
	return Link{
		Name:    "inverse",
		Eval:    inv,
		Inverse: inv,
		DMuDEta: func(eta float64) float64 { return -1 / (eta * eta) },
	}
}
