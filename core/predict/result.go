package predict

import (
	"gonum.org/v1/gonum/mat"

	"statpredict/core/model"
)

// Result is the value returned by a prediction call. It is immutable once
// returned: one value per target-data row, an optional interval table with
// exactly one row per value, an optional draw matrix with one row per value
// and one column per replicate, and the resolved configuration for
// introspection.
type Result struct {
	Values []float64
	// Intervals is nil when no uncertainty was obtainable; that is a valid
	// outcome, not an error.
	Intervals *model.Intervals
	// Draws holds replicate predictions when resampling ran. Column
	// identity is unordered.
	Draws *mat.Dense
	// Failures counts replicates whose refit failed; those columns are NaN
	// and were deliberately not excluded.
	Failures int
	Mode     Mode
	Level    float64
	Config   Config
}
