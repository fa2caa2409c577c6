// Package sink defines the Sink interface for decision output.
package sink

import (
	"github.com/daehyun-ko/feedsweep/internal/filter"
)

// Sink receives decision records and writes them to an output destination.
type Sink interface {
	// Write outputs a single decision record.
	Write(r filter.Record) error

	// Flush ensures all buffered output is written.
	Flush() error

	// Close releases resources held by the sink.
	Close() error

	// Name returns a human-readable identifier for this sink.
	Name() string
}
