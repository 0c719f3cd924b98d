package families

import "testing"

func TestDefaultRegistryCoversBuiltins(t *testing.T) {
	reg := Default()
	for _, tag := range []string{"gaussian", "binomial", "poisson", "mixed", "additive", "bayes"} {
		fam, ok := reg.Lookup(tag)
		if !ok {
			t.Fatalf("missing family %q", tag)
		}
		if fam.Tag() != tag {
			t.Fatalf("family %q reports tag %q", tag, fam.Tag())
		}
	}
	if _, ok := reg.Lookup("weibull"); ok {
		t.Fatalf("unexpected family weibull")
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Gaussian{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(Gaussian{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestFitDispatch(t *testing.T) {
	data := lineData(t, 20)
	m, err := Fit(Spec{Family: "gaussian", Response: "y", Predictors: []string{"x"}}, data)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if m.Info().Family != "gaussian" {
		t.Fatalf("family %s", m.Info().Family)
	}
	if _, err := Fit(Spec{Family: "mixed", Response: "y", Predictors: []string{"x"}}, data); err == nil {
		t.Fatalf("expected group requirement error")
	}
	if _, err := Fit(Spec{Family: "weibull", Response: "y"}, data); err == nil {
		t.Fatalf("expected unknown family error")
	}
}

func TestFitBayesDefaultsDraws(t *testing.T) {
	data := lineData(t, 20)
	m, err := Fit(Spec{Family: "bayes", Response: "y", Predictors: []string{"x"}}, data)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	bm, ok := m.(*BayesModel)
	if !ok {
		t.Fatalf("handle %T", m)
	}
	if bm.DrawCount() != 1000 {
		t.Fatalf("draw count %d, want default 1000", bm.DrawCount())
	}
	if !m.Info().Bayesian {
		t.Fatalf("expected Bayesian info flag")
	}
}

func TestRequestIncludesRandom(t *testing.T) {
	if !(Request{}).IncludesRandom("site") {
		t.Fatalf("nil terms should include every random term")
	}
	if (Request{RandomTerms: []string{}}).IncludesRandom("site") {
		t.Fatalf("empty terms should exclude every random term")
	}
	req := Request{RandomTerms: []string{"site"}}
	if !req.IncludesRandom("site") || req.IncludesRandom("block") {
		t.Fatalf("subset terms should include only the listed terms")
	}
}
