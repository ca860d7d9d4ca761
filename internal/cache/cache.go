// Package cache provides the local key-value byte cache the content layer
// fronts the document store with. Implementations must be safe for
// concurrent use.
package cache

import (
	"context"
	"time"
)

// Store is a byte-string KV cache with per-entry TTL.
type Store interface {
	// Get retrieves a value. Returns ErrMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Error is a sentinel error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrMiss indicates the key was not found or has expired.
	ErrMiss Error = "cache miss"
)
