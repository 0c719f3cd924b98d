// Package predictions exposes the prediction engine over HTTP: POST
// /api/predictions fits the requested model and returns fitted values with
// their uncertainty.
package predictions

import (
	"encoding/json"
	"net/http"

	"statpredict/core/families"
	"statpredict/core/model"
	"statpredict/core/predict"
)

// Runner is the service surface the handler needs. Implemented by
// app.Service.
type Runner interface {
	Predict(spec families.Spec, data *model.Frame, opts predict.Options) (string, *predict.Result, error)
	// Options returns the configured default prediction options.
	Options() predict.Options
}

// Request is the POST body.
type Request struct {
	families.Spec
	// Data holds the training columns.
	Data map[string][]float64 `json:"data"`
	// NewData optionally holds the prediction target; the training data is
	// used when absent.
	NewData map[string][]float64 `json:"newdata,omitempty"`

	Mode       string  `json:"mode,omitempty"`
	Level      float64 `json:"level,omitempty"`
	Replicates int     `json:"replicates,omitempty"`
	// ExcludeRandom drops all random-effect terms from the prediction.
	ExcludeRandom bool `json:"exclude_random,omitempty"`
	NoSmooths     bool `json:"no_smooths,omitempty"`
}

// Response is the reply body.
type Response struct {
	ID       string    `json:"id"`
	Values   []float64 `json:"values"`
	Lower    []float64 `json:"lower,omitempty"`
	Upper    []float64 `json:"upper,omitempty"`
	SE       []float64 `json:"se,omitempty"`
	Mode     string    `json:"mode"`
	Level    float64   `json:"level"`
	Draws    int       `json:"draws,omitempty"`
	Failures int       `json:"failures,omitempty"`
}

// NewHandler returns the /api/predictions handler.
func NewHandler(r Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body Request
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := model.FrameOf(body.Data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts := r.Options()
		opts.Mode = predict.Mode(body.Mode)
		if body.Level != 0 {
			opts.Level = body.Level
		}
		if body.Replicates != 0 {
			opts.Replicates = body.Replicates
		}
		opts.Random.Exclude = body.ExcludeRandom
		opts.NoSmooths = body.NoSmooths
		if body.NewData != nil {
			nd, err := model.FrameOf(body.NewData)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			opts.Data = nd
		}

		id, res, err := r.Predict(body.Spec, data, opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		resp := Response{
			ID:       id,
			Values:   res.Values,
			Mode:     string(res.Mode),
			Level:    res.Level,
			Failures: res.Failures,
		}
		if res.Intervals != nil {
			resp.Lower = res.Intervals.Lower
			resp.Upper = res.Intervals.Upper
			resp.SE = res.Intervals.SE
		}
		if res.Draws != nil {
			_, resp.Draws = res.Draws.Dims()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
