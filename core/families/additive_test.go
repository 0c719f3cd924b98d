package families

import (
	"math"
	"testing"

	"statpredict/core/model"
)

func TestFitAdditiveFitsCubicSignal(t *testing.T) {
	n := 40
	x := make([]float64, n)
	s := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		s[i] = math.Sin(float64(i))
		y[i] = 1 + 0.5*x[i] + s[i]*s[i]*s[i]
	}
	f := model.NewFrame(n)
	_ = f.SetFloats("x", x)
	_ = f.SetFloats("z", s)
	_ = f.SetFloats("y", y)

	m, err := FitAdditive(f, "y", []string{"x"}, []string{"z"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	info := m.Info()
	if info.Family != "additive" || !info.Linear {
		t.Fatalf("unexpected info %+v", info)
	}
	if got := info.Roles.Smooth; len(got) != 1 || got[0] != "z" {
		t.Fatalf("smooth roles %v", got)
	}

	// The cubic basis spans the true signal exactly, so in-sample predictions
	// reproduce the response.
	pred, err := Additive{}.Predict(m, f, Request{Scale: model.ScaleResponse})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for i := range y {
		if math.Abs(pred.Values[i]-y[i]) > 1e-6 {
			t.Fatalf("row %d: fitted %v, want %v", i, pred.Values[i], y[i])
		}
	}
}

func TestAdditiveIntervalsCoverFit(t *testing.T) {
	data := lineData(t, 20)
	m, err := FitAdditive(data, "y", nil, []string{"x"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	pred, err := Additive{}.Predict(m, data, Request{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	iv, err := Additive{}.Intervals(m, pred, data, model.IntervalConfidence, 0.95)
	if err != nil {
		t.Fatalf("intervals: %v", err)
	}
	for i := range pred.Values {
		if !(iv.Lower[i] <= pred.Values[i] && pred.Values[i] <= iv.Upper[i]) {
			t.Fatalf("row %d: point %v outside [%v, %v]",
				i, pred.Values[i], iv.Lower[i], iv.Upper[i])
		}
	}
}
