package calllog

import (
	"context"
	"sort"
	"sync"
)

// DefaultCapacity bounds the in-memory log when no capacity is given.
const DefaultCapacity = 1000

// Memory is an in-memory Store with a fixed capacity.
// When full, the oldest record is evicted on append.
type Memory struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
}

// NewMemory creates an in-memory store retaining at most capacity records.
// A capacity <= 0 selects DefaultCapacity.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		records:  make([]Record, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a record, evicting the oldest when at capacity.
func (m *Memory) Append(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) == m.capacity {
		copy(m.records, m.records[1:])
		m.records = m.records[:len(m.records)-1]
	}
	m.records = append(m.records, rec)
	return nil
}

// List returns retained records newest first.
// The stable sort keeps reverse insertion order for equal timestamps.
func (m *Memory) List(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, len(m.records))
	for i, rec := range m.records {
		out[len(m.records)-1-i] = rec
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Len returns the number of retained records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Verify Memory implements Store at compile time.
var _ Store = (*Memory)(nil)
