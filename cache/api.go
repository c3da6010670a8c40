package cache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/storecore/cache/codec"
	pr "github.com/unkn0wn-root/storecore/cache/provider"
	vs "github.com/unkn0wn-root/storecore/cache/versionstore"
)

// SetCostFunc lets providers with cost-based admission (e.g. Ristretto)
// weigh entries. storageKey is the physical key; raw the encoded payload.
type SetCostFunc func(storageKey string, raw []byte) int64

// Cache is the high-level, provider-agnostic versioned cache API.
// V is the caller's value type. Serialization is handled by a pluggable
// Codec[V].
//
// The cache is a pure accelerator: no method surfaces backing-store faults.
// A fault degrades Get to a miss and Set/Remove/RemoveByPattern to
// best-effort no-ops, reported through Logger and Hooks.
type Cache[V any] interface {
	// Get returns the live value for key. ok is false on miss, on a
	// backing-store fault, and on a decode failure (the offending entry is
	// then best-effort deleted).
	Get(ctx context.Context, key string) (v V, ok bool)

	// Set stores value under the key's current version and registers the key
	// for prefix invalidation. ttl <= 0 means Options.DefaultTTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration)

	// Remove logically deletes key: the version bump makes every previously
	// issued physical key permanently unreachable, then the superseded entry
	// is best-effort deleted. Idempotent; versions only ever increase.
	Remove(ctx context.Context, key string)

	// RemoveByPattern removes every live key whose logical key starts with
	// prefix, case-insensitively. A single trailing '*' is stripped first.
	// Prefix match only; no other glob forms are supported.
	RemoveByPattern(ctx context.Context, prefix string)

	Enabled() bool
	Close(context.Context) error
}

// Options tune the behavior of the generic versioned cache.
// Only Namespace, Provider and Codec are required; others have sensible
// defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "item", "order", "report"
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger           Logger        // if nil, NopLogger is used
	Hooks            Hooks         // if nil, NopHooks is used
	DefaultTTL       time.Duration // 0 => 10m
	TagSeparator     byte          // 0 => ':'
	CleanupInterval  time.Duration // local version store sweep; 0 => 1h
	VersionRetention time.Duration // 0 => 30d
	Disabled         bool          // default false (enabled)
	ComputeSetCost   SetCostFunc   // default 1
	Versions         vs.Store      // nil => versionstore.NewLocal (in-process)
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
