package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/pkg/metrics"
)

const memoryBackend = "memory"

// MemoryStore keeps records in insertion order for the lifetime of the
// process. Nothing is persisted.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Record
}

// NewMemoryStore returns a store pre-filled with seed, in order.
func NewMemoryStore(seed ...model.Record) *MemoryStore {
	s := &MemoryStore{records: make([]model.Record, 0, len(seed))}
	s.records = append(s.records, seed...)
	return s
}

// Append adds r at the end.
func (s *MemoryStore) Append(ctx context.Context, r model.Record) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.RecordRowStoreError(memoryBackend, "append")
		return wrapKind(ErrAppend, err)
	}
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
	metrics.RecordRowStoreLatency(memoryBackend, "append", sinceMs(start))
	return nil
}

// All returns a copy of every record in insertion order.
func (s *MemoryStore) All(ctx context.Context) ([]model.Record, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.RecordRowStoreError(memoryBackend, "fetch")
		return nil, wrapKind(ErrFetch, err)
	}
	s.mu.RLock()
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()
	metrics.RecordRowStoreLatency(memoryBackend, "fetch", sinceMs(start))
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
