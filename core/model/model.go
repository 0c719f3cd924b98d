package model

// Scale identifies which scale a prediction vector lives on.
type Scale string

const (
	ScaleLink     Scale = "link"
	ScaleResponse Scale = "response"
)

// IntervalKind distinguishes uncertainty about the mean from uncertainty
// about a new observation.
type IntervalKind string

const (
	IntervalConfidence IntervalKind = "confidence"
	IntervalPrediction IntervalKind = "prediction"
)

// Intervals holds per-observation uncertainty data. Lower and Upper always
// have one entry per prediction; SE may be nil when only bounds are known.
type Intervals struct {
	Lower []float64
	Upper []float64
	SE    []float64
}

// Roles partitions a model's variables by their function in the formula.
type Roles struct {
	Response string
	Fixed    []string
	Random   []string
	Smooth   []string
}

// Info is the metadata a fitted model exposes to the dispatch layer.
type Info struct {
	// Family is the registry tag, e.g. "gaussian" or "binomial".
	Family string
	// Linear is true when the model is linear on the response scale, so its
	// native predictions need no link transform.
	Linear bool
	// Mixed marks models with random-effect terms.
	Mixed bool
	// Bayesian marks models whose uncertainty comes from posterior draws.
	Bayesian bool
	Link     Link
	Roles    Roles
}

// Model is an opaque handle to an already-fitted model. The engine never
// mutates a handle; refits produce new handles.
type Model interface {
	Info() Info
	// TrainingData returns the frame the model was fitted on.
	TrainingData() *Frame
}
