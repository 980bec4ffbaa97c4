package common

import "time"

// CacheInterface defines the contract for cache implementations. Values are
// stored as JSON so both backends round-trip the same types.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value any, duration time.Duration)

	// Get decodes the cached value into dest and reports whether it was found
	Get(key string, dest any) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
