package counter

import "context"

// CounterKey is the fixed logical identifier of the single persisted counter.
const CounterKey = "counter"

// Store defines persistence operations for the connected-clients counter.
// Concurrency correctness relies on the store's atomic add-and-return
// primitive; callers never read-then-write for an increment.
type Store interface {
	// Add atomically applies a signed delta to the counter, creating it
	// at zero first if absent, and returns the new total.
	Add(ctx context.Context, delta int64) (int64, error)
	// Value returns the current counter value, or zero if the counter
	// row does not exist.
	Value(ctx context.Context) (int64, error)
}
