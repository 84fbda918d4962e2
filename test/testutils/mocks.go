// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"

	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecordStore provides a mock implementation of RecordStore
type MockRecordStore struct {
	mock.Mock
}

// ReadAllLines returns the configured lines
func (m *MockRecordStore) ReadAllLines(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	if lines, ok := args.Get(0).([]string); ok {
		return lines, args.Error(1)
	}
	return nil, args.Error(1)
}

// AppendLine records the call
func (m *MockRecordStore) AppendLine(ctx context.Context, line string) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

// MockMetricsRecorder provides a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

// QueryExecuted records the call
func (m *MockMetricsRecorder) QueryExecuted(operation string, results int) {
	m.Called(operation, results)
}

// RecipeAdded records the call
func (m *MockMetricsRecorder) RecipeAdded() {
	m.Called()
}

// RecordsSkipped records the call
func (m *MockMetricsRecorder) RecordsSkipped(n int) {
	m.Called(n)
}

// CatalogSize records the call
func (m *MockMetricsRecorder) CatalogSize(n int) {
	m.Called(n)
}

// SequenceRandom returns a scripted sequence of indexes, wrapping each into [0, n)
type SequenceRandom struct {
	mu      sync.Mutex
	indexes []int
	next    int
	Calls   []int
}

// NewSequenceRandom creates a random source that replays indexes in a loop
func NewSequenceRandom(indexes ...int) *SequenceRandom {
	if len(indexes) == 0 {
		indexes = []int{0}
	}
	return &SequenceRandom{indexes: indexes}
}

// IntN returns the next scripted index modulo n
func (s *SequenceRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, n)
	idx := s.indexes[s.next%len(s.indexes)] % n
	s.next++
	return idx
}

var (
	_ outbound.RecordStore     = (*MockRecordStore)(nil)
	_ outbound.MetricsRecorder = (*MockMetricsRecorder)(nil)
	_ outbound.RandomSource    = (*SequenceRandom)(nil)
)
