// Package cache provides content-addressed result caching for the CLI and
// the HTTP service.
//
// Formatting a JSON document is a pure function of its input text and the
// stringify options, so results are cached under a key derived from both.
// Two backends are provided:
//   - file: directory of entry files for single-machine CLI usage
//   - redis: shared cache for multi-instance serve deployments
//
// A null backend disables caching without special-casing call sites.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was found
	// and unexpired; misses are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
// Useful for testing or when caching should be disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always returns a cache miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
