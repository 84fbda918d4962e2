// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import "context"

// RecordStore is the backing store of serialized recipe records.
// It only ever reads everything or appends one line; nothing is rewritten.
type RecordStore interface {
	ReadAllLines(ctx context.Context) ([]string, error)
	AppendLine(ctx context.Context, line string) error
}

// RandomSource picks an index in [0, n). *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// MetricsRecorder receives catalog activity for monitoring
type MetricsRecorder interface {
	QueryExecuted(operation string, results int)
	RecipeAdded()
	RecordsSkipped(n int)
	CatalogSize(n int)
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) QueryExecuted(string, int) {}
func (NopMetrics) RecipeAdded()              {}
func (NopMetrics) RecordsSkipped(int)        {}
func (NopMetrics) CatalogSize(int)           {}
