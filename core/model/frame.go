package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Value is a single numeric cell. Valid is false for a missing value; the
// float payload of an invalid cell is meaningless.
type Value struct {
	Float float64
	Valid bool
}

// Num wraps a float into a valid cell.
func Num(f float64) Value { return Value{Float: f, Valid: true} }

// Null is the missing-value cell.
var Null = Value{}

// Frame is a rectangular table of named numeric columns. Column order is
// preserved across Clone and Subset.
type Frame struct {
	names []string
	cols  map[string][]Value
	rows  int
}

// NewFrame creates an empty frame with the given number of rows.
func NewFrame(rows int) *Frame {
	return &Frame{cols: make(map[string][]Value), rows: rows}
}

// Rows returns the number of observations.
func (f *Frame) Rows() int { return f.rows }

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Has reports whether the column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Set stores a column, replacing any existing one with the same name.
func (f *Frame) Set(name string, vals []Value) error {
	if len(vals) != f.rows {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(vals), f.rows)
	}
	if _, ok := f.cols[name]; !ok {
		f.names = append(f.names, name)
	}
	f.cols[name] = vals
	return nil
}

// SetFloats stores a column of valid cells.
func (f *Frame) SetFloats(name string, vals []float64) error {
	col := make([]Value, len(vals))
	for i, v := range vals {
		col[i] = Num(v)
	}
	return f.Set(name, col)
}

// Column returns the named column, or false if absent.
func (f *Frame) Column(name string) ([]Value, bool) {
	col, ok := f.cols[name]
	return col, ok
}

// Floats returns the column as a float slice. Missing cells are an error.
func (f *Frame) Floats(name string) ([]float64, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("column %s not found", name)
	}
	out := make([]float64, len(col))
	for i, v := range col {
		if !v.Valid {
			return nil, fmt.Errorf("column %s: missing value at row %d", name, i)
		}
		out[i] = v.Float
	}
	return out, nil
}

// Mean returns the arithmetic mean of the column's valid cells.
func (f *Frame) Mean(name string) (float64, error) {
	col, ok := f.cols[name]
	if !ok {
		return 0, fmt.Errorf("column %s not found", name)
	}
	var xs []float64
	for _, v := range col {
		if v.Valid {
			xs = append(xs, v.Float)
		}
	}
	if len(xs) == 0 {
		return 0, fmt.Errorf("column %s: no valid values", name)
	}
	return stat.Mean(xs, nil), nil
}

// Drop removes the column if present.
func (f *Frame) Drop(name string) {
	if _, ok := f.cols[name]; !ok {
		return
	}
	delete(f.cols, name)
	for i, n := range f.names {
		if n == name {
			f.names = append(f.names[:i], f.names[i+1:]...)
			break
		}
	}
}

// SetConstant fills the column with a single repeated cell, creating it if
// absent.
func (f *Frame) SetConstant(name string, v Value) {
	col := make([]Value, f.rows)
	for i := range col {
		col[i] = v
	}
	_ = f.Set(name, col)
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.rows)
	for _, name := range f.names {
		col := make([]Value, f.rows)
		copy(col, f.cols[name])
		_ = out.Set(name, col)
	}
	return out
}

// Subset returns a new frame containing the given rows, in order. Indices may
// repeat, which is how bootstrap resamples are drawn.
func (f *Frame) Subset(rows []int) *Frame {
	out := NewFrame(len(rows))
	for _, name := range f.names {
		src := f.cols[name]
		col := make([]Value, len(rows))
		for i, r := range rows {
			col[i] = src[r]
		}
		_ = out.Set(name, col)
	}
	return out
}

// FrameOf builds a frame from float columns. Columns are added in sorted name
// order so construction is deterministic; all columns must share one length.
func FrameOf(cols map[string][]float64) (*Frame, error) {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := -1
	for _, name := range names {
		if rows == -1 {
			rows = len(cols[name])
		} else if len(cols[name]) != rows {
			return nil, fmt.Errorf("column %s: %d values, want %d", name, len(cols[name]), rows)
		}
	}
	if rows <= 0 {
		return nil, fmt.Errorf("no data")
	}
	f := NewFrame(rows)
	for _, name := range names {
		if err := f.SetFloats(name, cols[name]); err != nil {
			return nil, err
		}
	}
	return f, nil
}
