// Package memory provides an in-memory record store for tests and ephemeral catalogs
package memory

import (
	"context"
	"sync"

	"github.com/alchemorsel/recipebook/internal/ports/outbound"
)

var _ outbound.RecordStore = (*RecordStore)(nil)

// RecordStore keeps record lines in a slice
type RecordStore struct {
	lines []string
	mutex sync.RWMutex

	readErr   error
	appendErr error
}

// NewRecordStore creates a store seeded with lines
func NewRecordStore(lines ...string) *RecordStore {
	return &RecordStore{
		lines: append([]string(nil), lines...),
	}
}

// ReadAllLines returns a copy of every stored line
func (r *RecordStore) ReadAllLines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.readErr != nil {
		return nil, r.readErr
	}

	return append([]string(nil), r.lines...), nil
}

// AppendLine stores one more line
func (r *RecordStore) AppendLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.appendErr != nil {
		return r.appendErr
	}

	r.lines = append(r.lines, line)
	return nil
}

// Lines returns a snapshot of the stored lines
func (r *RecordStore) Lines() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return append([]string(nil), r.lines...)
}

// FailReads makes every subsequent read return err; nil clears it
func (r *RecordStore) FailReads(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.readErr = err
}

// FailAppends makes every subsequent append return err; nil clears it
func (r *RecordStore) FailAppends(err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.appendErr = err
}
