package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"statpredict/api/predictions"
	"statpredict/app"
	"statpredict/config"
	"statpredict/core/families"
	"statpredict/core/model"
	"statpredict/core/predict"
)

var (
	dataPath   string
	newPath    string
	family     string
	response   string
	predictors []string
	group      string
	smooth     []string
	mode       string
	level      float64
	replicates int
	noRandom   bool
	noSmooths  bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Fit a model on a CSV dataset and print predictions as JSON",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&dataPath, "data", "", "training data CSV (header row, numeric columns)")
	predictCmd.Flags().StringVar(&newPath, "newdata", "", "optional prediction target CSV")
	predictCmd.Flags().StringVar(&family, "family", "gaussian", "model family")
	predictCmd.Flags().StringVar(&response, "response", "", "response column")
	predictCmd.Flags().StringSliceVar(&predictors, "predictors", nil, "fixed predictor columns")
	predictCmd.Flags().StringVar(&group, "group", "", "grouping column (mixed models)")
	predictCmd.Flags().StringSliceVar(&smooth, "smooth", nil, "smooth-term columns (additive models)")
	predictCmd.Flags().StringVar(&mode, "mode", "", "output mode: link, expectation or prediction")
	predictCmd.Flags().Float64Var(&level, "level", 0, "confidence level override")
	predictCmd.Flags().IntVar(&replicates, "replicates", 0, "bootstrap replicate count override")
	predictCmd.Flags().BoolVar(&noRandom, "no-random", false, "exclude random-effect terms")
	predictCmd.Flags().BoolVar(&noSmooths, "no-smooths", false, "pin smooth terms to their training mean")
	_ = predictCmd.MarkFlagRequired("data")
	_ = predictCmd.MarkFlagRequired("response")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	data, err := loadCSV(dataPath)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	opts := svc.Options()
	opts.Mode = predict.Mode(mode)
	if level != 0 {
		opts.Level = level
	}
	if replicates != 0 {
		opts.Replicates = replicates
	}
	opts.Random.Exclude = noRandom
	opts.NoSmooths = noSmooths
	if newPath != "" {
		nd, err := loadCSV(newPath)
		if err != nil {
			return fmt.Errorf("load newdata: %w", err)
		}
		opts.Data = nd
	}

	spec := families.Spec{
		Family:     family,
		Response:   response,
		Predictors: predictors,
		Group:      group,
		Smooth:     smooth,
	}
	id, res, err := svc.Predict(spec, data, opts)
	if err != nil {
		return err
	}

	out := predictions.Response{
		ID:       id,
		Values:   res.Values,
		Mode:     string(res.Mode),
		Level:    res.Level,
		Failures: res.Failures,
	}
	if res.Intervals != nil {
		out.Lower = res.Intervals.Lower
		out.Upper = res.Intervals.Upper
		out.SE = res.Intervals.SE
	}
	if res.Draws != nil {
		_, out.Draws = res.Draws.Dims()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// loadCSV reads a numeric CSV with a header row into a frame. Empty cells
// become missing values.
func loadCSV(path string) (*model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one data row", path)
	}
	header := rows[0]
	frame := model.NewFrame(len(rows) - 1)
	for j, name := range header {
		col := make([]model.Value, len(rows)-1)
		for i, row := range rows[1:] {
			if j >= len(row) || row[j] == "" {
				col[i] = model.Null
				continue
			}
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %s: %w", path, i+2, name, err)
			}
			col[i] = model.Num(v)
		}
		if err := frame.Set(name, col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
