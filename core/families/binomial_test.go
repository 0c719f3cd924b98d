package families

import (
	"math"
	"math/rand"
	"testing"

	"statpredict/core/model"
)

// logitData builds a clean separation-free binary response driven by a single
// predictor through a logit link with known coefficients.
func logitData(t *testing.T, n int) *model.Frame {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = -2 + 4*float64(i)/float64(n-1)
		p := 1 / (1 + math.Exp(-(0.5 + 1.5*x[i])))
		if rng.Float64() < p {
			y[i] = 1
		}
	}
	f := model.NewFrame(n)
	if err := f.SetFloats("x", x); err != nil {
		t.Fatalf("set x: %v", err)
	}
	if err := f.SetFloats("y", y); err != nil {
		t.Fatalf("set y: %v", err)
	}
	return f
}

func TestFitBinomialRecoversSlope(t *testing.T) {
	data := logitData(t, 400)
	m, err := FitBinomial(data, "y", []string{"x"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	coef := m.Coefficients()
	if math.Abs(coef[1]-1.5) > 0.5 {
		t.Fatalf("slope %v, want near 1.5", coef[1])
	}
}

func TestFitBinomialRejectsOutOfRangeResponse(t *testing.T) {
	f := model.NewFrame(3)
	_ = f.SetFloats("x", []float64{1, 2, 3})
	_ = f.SetFloats("y", []float64{0, 1, 2})
	if _, err := FitBinomial(f, "y", []string{"x"}); err == nil {
		t.Fatalf("expected range error for response outside [0,1]")
	}
}

func TestBinomialLinkAndResponseScalesAgree(t *testing.T) {
	data := logitData(t, 400)
	m, err := FitBinomial(data, "y", []string{"x"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	link, err := Binomial{}.Predict(m, data, Request{Scale: model.ScaleLink})
	if err != nil {
		t.Fatalf("link predict: %v", err)
	}
	resp, err := Binomial{}.Predict(m, data, Request{Scale: model.ScaleResponse})
	if err != nil {
		t.Fatalf("response predict: %v", err)
	}
	for i := range link.Values {
		p := 1 / (1 + math.Exp(-link.Values[i]))
		if math.Abs(p-resp.Values[i]) > 1e-9 {
			t.Fatalf("row %d: inverse-logit of %v gives %v, response scale %v",
				i, link.Values[i], p, resp.Values[i])
		}
		if resp.Values[i] <= 0 || resp.Values[i] >= 1 {
			t.Fatalf("row %d: probability %v outside (0,1)", i, resp.Values[i])
		}
	}
}

func TestBinomialDeltaMethodSE(t *testing.T) {
	data := logitData(t, 400)
	m, err := FitBinomial(data, "y", []string{"x"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	link, _ := Binomial{}.Predict(m, data, Request{Scale: model.ScaleLink})
	resp, _ := Binomial{}.Predict(m, data, Request{Scale: model.ScaleResponse})
	for i := range link.SE {
		p := resp.Values[i]
		want := link.SE[i] * p * (1 - p)
		if math.Abs(resp.SE[i]-want) > 1e-9 {
			t.Fatalf("row %d: response SE %v, want %v", i, resp.SE[i], want)
		}
	}
}
