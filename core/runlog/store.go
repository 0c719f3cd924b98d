// Package runlog persists a record of every prediction run for later audit.
// Two backends exist: an append-only JSONL file and a SQLite database.
package runlog

import (
	"context"
	"time"
)

// Record captures one prediction run.
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Family       string    `json:"family"`
	Mode         string    `json:"mode"`
	Observations int       `json:"observations"`
	Replicates   int       `json:"replicates"`
	Failures     int       `json:"failures"`
	Level        float64   `json:"level"`
	Values       []float64 `json:"values"`
	Lower        []float64 `json:"lower,omitempty"`
	Upper        []float64 `json:"upper,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start  time.Time
	End    time.Time
	Family string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
