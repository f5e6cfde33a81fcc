package counter

import (
	"context"
	"sync"
)

// Memory is an in-process Store for tests and local runs without a table.
type Memory struct {
	// mu serializes access to the counter value.
	mu sync.Mutex
	// value is the current counter total.
	value int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Add applies the delta and returns the new total.
func (s *Memory) Add(_ context.Context, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value += delta

	return s.value, nil
}

// Value returns the current total.
func (s *Memory) Value(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value, nil
}
