// Package keyedmutex bounds concurrent access to named resources.
//
// A KeyedMutex holds one admission gate per resource key. Each gate admits up
// to maxConcurrent operations at a time; it throttles, it does not serialize
// (unless maxConcurrent is 1). Distinct keys never contend. There is no
// ordering guarantee among waiters.
//
// Gates are created on first use and retained for the life of the process,
// so resource keys should come from a bounded namespace: collection-level
// keys such as "items:read" or "orders:write" rather than unbounded
// per-record IDs. Len reports the current gate count for monitoring.
package keyedmutex

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent is used when New is given a non-positive limit.
const DefaultMaxConcurrent = 10

type KeyedMutex struct {
	max   int64
	gates *xsync.MapOf[string, *semaphore.Weighted]
}

func New(maxConcurrent int) *KeyedMutex {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &KeyedMutex{
		max:   int64(maxConcurrent),
		gates: xsync.NewMapOf[string, *semaphore.Weighted](),
	}
}

// gate returns the gate for key, creating it on first use. Racing creators
// converge on a single instance.
func (m *KeyedMutex) gate(key string) *semaphore.Weighted {
	g, _ := m.gates.LoadOrCompute(key, func() *semaphore.Weighted {
		return semaphore.NewWeighted(m.max)
	})
	return g
}

// Do runs fn once a permit for key is available. The wait is aborted with
// ctx.Err() when ctx is done, without leaking a permit. fn's error passes
// through unchanged; the permit is released on every exit path. The gate
// itself waits indefinitely: a caller that needs a deadline wraps ctx.
func (m *KeyedMutex) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	g := m.gate(key)
	if err := g.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.Release(1)
	return fn(ctx)
}

// Run is Do for operations that return a value.
func Run[T any](ctx context.Context, m *KeyedMutex, key string, fn func(context.Context) (T, error)) (T, error) {
	g := m.gate(key)
	if err := g.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer g.Release(1)
	return fn(ctx)
}

// Len reports how many gates exist.
func (m *KeyedMutex) Len() int { return m.gates.Size() }
