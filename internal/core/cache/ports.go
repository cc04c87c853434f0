package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for keys that are absent or expired.
// Callers that treat a miss as a normal outcome check for it with errors.Is.
var ErrKeyNotFound = errors.New("key not found")

// Cache is the port backing the last-known-good snapshot store. Values are
// opaque byte slices; serialization belongs to the repository on top.
type Cache interface {
	// Get retrieves a value by key. A miss is ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key. TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
