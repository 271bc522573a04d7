package store

import (
	"context"
)

// Store keeps room state keyed by a namespaced identifier. Implementations
// must make Create and Replace atomic with respect to each other so that
// existence checks hold across server processes.
type Store interface {
	// Create stores value under key only if key does not exist yet
	Create(ctx context.Context, key string, value []byte) (bool, error)

	// Get returns the value for key and refreshes its time to live
	Get(ctx context.Context, key string) ([]byte, error)

	// Replace overwrites value only if key already exists
	Replace(ctx context.Context, key string, value []byte) (bool, error)

	Close() error
}
