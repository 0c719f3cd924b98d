package predictions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"statpredict/core/families"
	"statpredict/core/model"
	"statpredict/core/predict"
)

// stubRunner fits and predicts in-process without a service behind it.
type stubRunner struct {
	lastOpts predict.Options
}

func (s *stubRunner) Options() predict.Options { return predict.Options{Level: 0.95} }

func (s *stubRunner) Predict(spec families.Spec, data *model.Frame, opts predict.Options) (string, *predict.Result, error) {
	s.lastOpts = opts
	m, err := families.Fit(spec, data)
	if err != nil {
		return "", nil, err
	}
	res, err := predict.Predict(m, opts)
	if err != nil {
		return "", nil, err
	}
	return "run-1", res, nil
}

const fitBody = `{
	"family": "gaussian",
	"response": "y",
	"predictors": ["x"],
	"data": {
		"x": [0, 1, 2, 3, 4, 5, 6, 7],
		"y": [1.1, 2.9, 5.1, 6.9, 9.1, 10.9, 13.1, 14.9]
	}
}`

func TestHandlerPredicts(t *testing.T) {
	runner := &stubRunner{}
	srv := httptest.NewServer(NewHandler(runner))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(fitBody))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "run-1" {
		t.Fatalf("id %q", body.ID)
	}
	if len(body.Values) != 8 {
		t.Fatalf("got %d values, want 8", len(body.Values))
	}
	if body.Mode != "expectation" || body.Level != 0.95 {
		t.Fatalf("mode %q level %v", body.Mode, body.Level)
	}
	if len(body.Lower) != 8 || len(body.Upper) != 8 {
		t.Fatalf("missing interval bounds")
	}
}

func TestHandlerNewDataAndOverrides(t *testing.T) {
	runner := &stubRunner{}
	srv := httptest.NewServer(NewHandler(runner))
	defer srv.Close()

	body := `{
		"family": "gaussian",
		"response": "y",
		"predictors": ["x"],
		"mode": "prediction",
		"level": 0.8,
		"replicates": 10,
		"data": {
			"x": [0, 1, 2, 3, 4, 5, 6, 7],
			"y": [1.1, 2.9, 5.1, 6.9, 9.1, 10.9, 13.1, 14.9]
		},
		"newdata": {"x": [10, 20]}
	}`
	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Values) != 2 {
		t.Fatalf("newdata ignored: %d values", len(out.Values))
	}
	if out.Draws != 10 {
		t.Fatalf("draw count %d, want 10", out.Draws)
	}
	if runner.lastOpts.Level != 0.8 || runner.lastOpts.Replicates != 10 {
		t.Fatalf("overrides not applied: %+v", runner.lastOpts)
	}
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	runner := &stubRunner{}
	srv := httptest.NewServer(NewHandler(runner))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET status %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL, "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body status %d", resp.StatusCode)
	}

	bad := strings.Replace(fitBody, `"gaussian"`, `"weibull"`, 1)
	resp, err = http.Post(srv.URL, "application/json", strings.NewReader(bad))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unknown family status %d", resp.StatusCode)
	}

	ragged := strings.Replace(fitBody, `"x": [0, 1, 2, 3, 4, 5, 6, 7]`, `"x": [0, 1]`, 1)
	resp, err = http.Post(srv.URL, "application/json", strings.NewReader(ragged))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("ragged data status %d", resp.StatusCode)
	}
}
