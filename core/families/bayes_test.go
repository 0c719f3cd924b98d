package families

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"statpredict/core/model"
)

func bayesHandle(t *testing.T, ndraws int) *BayesModel {
	t.Helper()
	g, err := FitGaussian(lineData(t, 20), "y", []string{"x"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	bm, err := NewBayesGaussian(g, ndraws, 11)
	if err != nil {
		t.Fatalf("bayes handle: %v", err)
	}
	return bm
}

func TestBayesDrawsShape(t *testing.T) {
	bm := bayesHandle(t, 500)
	if bm.DrawCount() != 500 {
		t.Fatalf("draw count %d, want 500", bm.DrawCount())
	}
	nd := model.NewFrame(3)
	_ = nd.SetFloats("x", []float64{0, 1, 2})

	all, err := Bayes{}.Draws(bm, nd, 0)
	if err != nil {
		t.Fatalf("draws: %v", err)
	}
	if r, c := all.Dims(); r != 3 || c != 500 {
		t.Fatalf("draw matrix %dx%d, want 3x500", r, c)
	}

	sub, err := Bayes{}.Draws(bm, nd, 50)
	if err != nil {
		t.Fatalf("subsample: %v", err)
	}
	if _, c := sub.Dims(); c != 50 {
		t.Fatalf("subsample width %d, want 50", c)
	}
	// Subsampling takes existing draws, so each subsampled column must appear
	// in the full matrix.
	first := mat.Col(nil, 0, sub)
	found := false
	for j := 0; j < 500; j++ {
		if math.Abs(all.At(0, j)-first[0]) < 1e-12 {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("subsampled column not drawn from the posterior")
	}
}

func TestBayesPredictCentersOnPosteriorMean(t *testing.T) {
	bm := bayesHandle(t, 2000)
	nd := model.NewFrame(2)
	_ = nd.SetFloats("x", []float64{0, 10})
	pred, err := Bayes{}.Predict(bm, nd, Request{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	draws, _ := Bayes{}.Draws(bm, nd, 0)
	for i := range pred.Values {
		m := mean(mat.Row(nil, i, draws))
		if math.Abs(pred.Values[i]-m) > 0.2 {
			t.Fatalf("row %d: point %v far from posterior mean %v", i, pred.Values[i], m)
		}
		if pred.SE[i] <= 0 {
			t.Fatalf("row %d: non-positive posterior SE", i)
		}
	}
}

func TestBayesRefitUnsupported(t *testing.T) {
	bm := bayesHandle(t, 10)
	if _, err := (Bayes{}).Refit(bm, bm.TrainingData()); err == nil {
		t.Fatalf("expected refit error for posterior handle")
	}
}

func mean(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}
