// Package cache stores computed layouts so unchanged diagrams are not laid
// out twice.
//
// Layout is deterministic: the same node list, collapsed set, preset and
// node size always produce the same positions. That makes the snapshot a
// pure function of its inputs, and a [Keyer] turns those inputs into a
// content-addressed key.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI.
//   - [RedisCache]: shared cache for several API server instances.
//   - [NullCache]: caches nothing.
//
// All backends treat corrupt or expired entries as misses.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout = 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache caches nothing. It backs --no-cache and the "none" backend.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
