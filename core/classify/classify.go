// Package classify answers whether an arbitrary object is a supported model
// and, more strictly, whether it is a regression model. The decision is a
// membership test against a static registry of known family tags; nothing is
// inspected beyond the tag the object declares.
package classify

import "statpredict/core/model"

// Tagged is implemented by analyzable objects that are not regression models
// (test results, pairwise comparisons) but still carry a family tag.
type Tagged interface {
	StatTag() string
}

// supported is the registry of family tags the engine knows about.
var supported = map[string]struct{}{
	"gaussian":       {},
	"binomial":       {},
	"poisson":        {},
	"gamma":          {},
	"mixed":          {},
	"additive":       {},
	"mixed_additive": {},
	"bayes":          {},
	"htest":          {},
	"aov":            {},
	"pairwise":       {},
}

// nonRegression are supported tags excluded by IsRegressionModel.
var nonRegression = map[string]struct{}{
	"htest":    {},
	"pairwise": {},
}

// Tag returns the registry tag for a model handle. A handle carrying both
// mixed and additive structure gets the synthesized combined tag.
func Tag(m model.Model) string {
	info := m.Info()
	if info.Mixed && len(info.Roles.Smooth) > 0 {
		return "mixed_additive"
	}
	return info.Family
}

func tagOf(x any) (string, bool) {
	switch v := x.(type) {
	case model.Model:
		return Tag(v), true
	case Tagged:
		return v.StatTag(), true
	}
	return "", false
}

// IsModel reports whether x is any supported model or test object.
func IsModel(x any) bool {
	tag, ok := tagOf(x)
	if !ok {
		return false
	}
	_, ok = supported[tag]
	return ok
}

// IsRegressionModel reports whether x is a supported regression model, which
// excludes statistical-test results and pairwise comparison objects.
func IsRegressionModel(x any) bool {
	tag, ok := tagOf(x)
	if !ok {
		return false
	}
	if _, excluded := nonRegression[tag]; excluded {
		return false
	}
	_, ok = supported[tag]
	return ok
}
