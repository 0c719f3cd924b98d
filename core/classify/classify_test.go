package classify

import (
	"testing"

	"statpredict/core/model"
)

type fakeModel struct {
	info model.Info
}

func (f fakeModel) Info() model.Info           { return f.info }
func (f fakeModel) TrainingData() *model.Frame { return nil }

type fakeTest struct{ tag string }

func (f fakeTest) StatTag() string { return f.tag }

func TestIsModel(t *testing.T) {
	m := fakeModel{info: model.Info{Family: "gaussian"}}
	if !IsModel(m) {
		t.Fatalf("gaussian handle should be a model")
	}
	if IsModel(fakeModel{info: model.Info{Family: "no_such_family"}}) {
		t.Fatalf("unknown family should not be a model")
	}
	if IsModel(42) {
		t.Fatalf("plain value should not be a model")
	}
}

func TestIsModelAcceptsTestObjects(t *testing.T) {
	if !IsModel(fakeTest{tag: "htest"}) {
		t.Fatalf("htest should be analyzable")
	}
	if IsRegressionModel(fakeTest{tag: "htest"}) {
		t.Fatalf("htest is not a regression model")
	}
	if IsRegressionModel(fakeTest{tag: "pairwise"}) {
		t.Fatalf("pairwise comparisons are not regression models")
	}
}

func TestIsRegressionModel(t *testing.T) {
	if !IsRegressionModel(fakeModel{info: model.Info{Family: "binomial"}}) {
		t.Fatalf("binomial should be a regression model")
	}
}

func TestCompositeTag(t *testing.T) {
	m := fakeModel{info: model.Info{
		Family: "mixed",
		Mixed:  true,
		Roles:  model.Roles{Smooth: []string{"s"}},
	}}
	if got := Tag(m); got != "mixed_additive" {
		t.Fatalf("tag = %s, want mixed_additive", got)
	}
	if !IsModel(m) {
		t.Fatalf("combined tag should still be supported")
	}
}
