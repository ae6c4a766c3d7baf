// Package cache provides the artifact cache used by the render pipeline
// and the HTTP server.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// shared deployments and [NullCache] when caching is disabled. Keys come
// from a [Keyer] so that every entry point derives the same key for the
// same input.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Default TTLs per entry type.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLOutline  = 30 * 24 * time.Hour
)
