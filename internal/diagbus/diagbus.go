// Package diagbus carries non-fatal diagnostics emitted by the prediction
// engine: policy downgrades and replicate failures the default caller should
// know about. Delivery is fan-out and non-blocking; slow subscribers drop
// events rather than stalling a prediction call.
package diagbus

import "sync"

// Code identifies a diagnostic kind.
type Code string

const (
	// CodeIntervalDowngrade: prediction-kind intervals were requested on a
	// family that only supports confidence-kind; the call proceeded with
	// expectation mode.
	CodeIntervalDowngrade Code = "interval_downgrade"
	// CodeReplicateFailures: one or more bootstrap refits failed and were
	// recorded as NaN columns in the draw matrix.
	CodeReplicateFailures Code = "replicate_failures"
)

// Diagnostic is one engine warning.
type Diagnostic struct {
	Code    Code
	Message string
}

// Bus is a fan-out channel bus for diagnostics.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Diagnostic
	closed bool
}

// New creates an empty Bus.
func New() *Bus { return &Bus{} }

// Publish sends the diagnostic to all subscribers without blocking.
func (b *Bus) Publish(d Diagnostic) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- d:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Diagnostic {
	ch := make(chan Diagnostic, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close shuts the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
