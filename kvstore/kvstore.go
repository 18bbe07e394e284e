package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("kvstore: key not found")

// ErrUnavailable wraps infrastructure faults (store unreachable, timeout).
// Callers treat it as a conservative denial, never as success.
var ErrUnavailable = errors.New("kvstore: store unavailable")

// Store is the keyed TTL store the gate relies on for all shared mutable
// state. Implementations must provide atomic Incr so that fixed-window
// counters behave correctly across processes.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// SetWithTTL stores value under key, overwriting any previous value and
	// resetting the expiry to ttl.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error

	// Incr atomically increments the counter at key and returns the new
	// count. When the increment creates the counter (result 1) the ttl is
	// applied; subsequent increments do not extend it.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
