// Package cache stores the results of causal queries.
//
// A query result depends only on the graph and the query options, so results
// are keyed by a hash of both and can be shared between CLI runs (file
// backend) or between API replicas (redis backend). [NullCache] disables
// caching.
//
// Keys are built by a [Keyer]. Every key starts with a type prefix ("query",
// "render") which [Instrument] reports to the cache hooks in
// package observability.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is used when a caller passes a zero TTL to a backend that
// supports expiry.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry where the
	// backend allows it.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
