package predict

import (
	"statpredict/core/families"
	"statpredict/core/model"
)

// Config is the resolved configuration of one prediction call. It is derived
// once by the normalizer and never mutated afterwards.
type Config struct {
	// Data is the final target frame, already mutated per policy: excluded
	// random-effect columns nulled or dropped, pinned smooth columns set to
	// their training mean.
	Data *model.Frame
	Mode Mode
	// Scale is the scale of the returned values.
	Scale model.Scale
	// Interval is the kind of uncertainty interval that applies.
	Interval model.IntervalKind
	// NativeScale is the scale requested from the family's own predict
	// routine. Linear families produce response-scale output directly;
	// nonlinear families produce link-scale output and rely on the
	// transform stage, which avoids double-applying the link.
	NativeScale model.Scale
	// NeedsTransform is true when a link-to-response transform must run
	// after the native call.
	NeedsTransform bool
	// IncludeRandom records the final random-effect inclusion after any
	// silent downgrade.
	IncludeRandom bool
	// RandomTerms is the family-native selector: nil = native default (all
	// terms), empty = none, non-empty = explicit subset.
	RandomTerms []string
	// Smooths records the final smooth-term inclusion; once any smooth is
	// pinned this is false for all of them.
	Smooths bool
	Level   float64
}

// resolve normalizes a request into a Config. The warn callback receives
// non-fatal downgrades the caller should know about; silent downgrades
// (unsatisfiable random inclusion, absent smooth columns) only show up in the
// returned Config.
func resolve(m model.Model, fam families.Family, opts Options, warn func(format string, args ...any)) (Config, error) {
	mode, err := canonicalMode(opts.Mode)
	if err != nil {
		return Config{}, err
	}
	if mode == ModePrediction && !fam.Caps().PredictionIntervals {
		warn("%s does not support prediction intervals, using expectation mode", fam.Tag())
		mode = ModeExpectation
	}

	info := m.Info()
	data := opts.Data
	if data == nil {
		data = m.TrainingData()
	}
	data = data.Clone()

	cfg := Config{Mode: mode, Level: opts.Level}
	switch mode {
	case ModeLink:
		cfg.Scale, cfg.Interval = model.ScaleLink, model.IntervalConfidence
	case ModeExpectation:
		cfg.Scale, cfg.Interval = model.ScaleResponse, model.IntervalConfidence
	case ModePrediction:
		cfg.Scale, cfg.Interval = model.ScaleResponse, model.IntervalPrediction
	}

	if info.Linear {
		cfg.NativeScale = model.ScaleResponse
	} else {
		cfg.NativeScale = model.ScaleLink
	}
	cfg.NeedsTransform = !info.Linear && cfg.Scale == model.ScaleResponse
	if cfg.Scale == model.ScaleLink {
		cfg.NativeScale = model.ScaleLink
	}

	cfg.Smooths = pinSmooths(m, data, !opts.NoSmooths)

	cfg.IncludeRandom = resolveRandom(info, fam.Caps(), data, opts.Random)
	cfg.RandomTerms = randomTerms(cfg.IncludeRandom, opts.Random)

	cfg.Data = data
	return cfg, nil
}

// pinSmooths fixes smooth-term columns to their training-data mean whenever
// smooth inclusion is off or the column is absent from the target data. The
// final flag is a pure function of the requested policy and data
// availability: once any term is pinned, inclusion is off for all of them.
func pinSmooths(m model.Model, data *model.Frame, include bool) bool {
	smooth := m.Info().Roles.Smooth
	if len(smooth) == 0 {
		return include
	}
	if include {
		for _, s := range smooth {
			if !data.Has(s) {
				include = false
				break
			}
		}
	}
	if include {
		return true
	}
	train := m.TrainingData()
	for _, s := range smooth {
		mean, err := train.Mean(s)
		if err != nil {
			continue
		}
		data.SetConstant(s, model.Num(mean))
	}
	return false
}

// resolveRandom decides final random-effect inclusion and applies the
// exclusion policy to the target data. Inclusion is silently downgraded when
// the target data lacks a needed random-effect column. Exclusion either
// drops the columns (families whose native routines reject null cells) or
// overwrites them with nulls, creating absent columns so the native routine
// sees them.
func resolveRandom(info model.Info, caps families.Caps, data *model.Frame, spec RandomSpec) bool {
	random := info.Roles.Random
	if len(random) == 0 {
		return !spec.Exclude
	}
	include := !spec.Exclude
	if include {
		for _, r := range random {
			if !data.Has(r) {
				include = false
				break
			}
		}
	}
	if include {
		return true
	}
	for _, r := range random {
		if caps.DropNullRandom {
			data.Drop(r)
		} else {
			data.SetConstant(r, model.Null)
		}
	}
	return false
}

// randomTerms translates the inclusion policy into the family-native
// random-effects argument.
func randomTerms(include bool, spec RandomSpec) []string {
	if !include {
		return []string{}
	}
	if len(spec.Terms) > 0 {
		return spec.Terms
	}
	return nil
}
