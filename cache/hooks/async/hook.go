// Package asynchook decouples hook callbacks from the cache's hot paths.
//
// Usage:
//
//	raw := promhook.New(prometheus.DefaultRegisterer, "storecore")
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cc, _ := cache.New[Item](cache.Options[Item]{
//	    Namespace: "item",
//	    Provider:  provider,
//	    Codec:     codec.JSON[Item]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/storecore/cache"
)

type Hooks struct {
	inner cache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ cache.Hooks = (*Hooks)(nil)

func New(inner cache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Safe to call multiple times.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// enqueue drops the event when the queue is full; hooks must never block the
// cache.
func (h *Hooks) enqueue(f func()) {
	select {
	case h.q <- f:
	default:
	}
}

func (h *Hooks) BackendError(op, storageKey string, err error) {
	h.enqueue(func() { h.inner.BackendError(op, storageKey, err) })
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	h.enqueue(func() { h.inner.SelfHeal(storageKey, reason) })
}

func (h *Hooks) SetRejected(storageKey string) {
	h.enqueue(func() { h.inner.SetRejected(storageKey) })
}

func (h *Hooks) RemoveOutage(key string, err *cache.RemoveError) {
	h.enqueue(func() { h.inner.RemoveOutage(key, err) })
}

func (h *Hooks) PatternInvalidated(prefix string, matched int) {
	h.enqueue(func() { h.inner.PatternInvalidated(prefix, matched) })
}
