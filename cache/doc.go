// Package cache implements a provider-agnostic, versioned read-through cache
// for the catalog/order backend. Every logical key carries a monotonically
// increasing version; the version is embedded in the physical key written to
// the backing store, so invalidation is an O(1) version bump that makes all
// previously issued physical keys unreachable. Superseded entries age out via
// their own TTLs.
//
// Components:
//   - Provider: byte store with TTL (e.g. Redis, Ristretto, BigCache, sturdyc).
//   - Codec[V]: (de)serializes V <-> []byte.
//   - versionstore.Store: version counter per logical key. Local (in-process)
//     by default, optional Redis implementation for multi-replica setups.
//
// Keys:
//
//	<ns>:<key>:v<version>  - physical key for the current generation
//
// The cache is a pure accelerator: no method surfaces backing-store faults.
// A fault degrades Get to a miss and Set/Remove to best-effort no-ops; faults
// are reported through Logger and Hooks only. Callers must always have a
// correct (if slower) path when the cache is entirely unavailable.
//
// Bulk invalidation is prefix-based: an in-process tag index groups live keys
// by their first key segment, so RemoveByPattern never scans the backing key
// space. The index does not survive restarts; until writes repopulate it,
// pattern removal is a no-op and stale entries are bounded by their TTL.
package cache
