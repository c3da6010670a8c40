// Package versionstore tracks the current version of each logical cache key.
// A missing key is version 0; versions only ever increase.
package versionstore

import (
	"context"
	"time"
)

// Store abstracts where versions live.
// Use Local (default) for in-process versions, or Redis when invalidation
// must survive restarts or span replicas.
type Store interface {
	// Current returns the key's version; missing => 0.
	Current(ctx context.Context, key string) (uint64, error)
	// Bump atomically increments and returns the new version.
	Bump(ctx context.Context, key string) (uint64, error)
	// Cleanup prunes long-idle metadata if applicable (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
