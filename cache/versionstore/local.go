package versionstore

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type localEntry struct {
	Ver       uint64
	UpdatedAt time.Time // set only on bumps
}

// Local keeps versions in-process (default). Mutation is per map entry, so
// bumps on distinct keys never contend and bumps on the same key are
// linearizable. Optional cleanup loop prunes long-inactive entries.
type Local struct {
	vers      *xsync.MapOf[string, localEntry]
	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	retention time.Duration
}

var _ Store = (*Local)(nil)

func NewLocal(cleanupInterval, retention time.Duration) *Local {
	s := &Local{
		vers:      xsync.NewMapOf[string, localEntry](),
		retention: retention,
	}
	if cleanupInterval > 0 && retention > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Cleanup(retention)
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Local) Current(_ context.Context, k string) (uint64, error) {
	e, _ := s.vers.Load(k) // zero value (0) if missing
	return e.Ver, nil
}

func (s *Local) Bump(_ context.Context, k string) (uint64, error) {
	now := time.Now()
	e, _ := s.vers.Compute(k, func(old localEntry, _ bool) (localEntry, bool) {
		old.Ver++
		old.UpdatedAt = now
		return old, false
	})
	return e.Ver, nil
}

func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.vers.Range(func(k string, e localEntry) bool {
		if e.UpdatedAt.IsZero() || !e.UpdatedAt.Before(cutoff) {
			return true
		}
		// re-check under the entry's bucket; a concurrent bump keeps it
		s.vers.Compute(k, func(cur localEntry, loaded bool) (localEntry, bool) {
			return cur, !loaded || !cur.UpdatedAt.After(cutoff)
		})
		return true
	})
}

func (s *Local) Close(_ context.Context) error {
	s.closeOnce.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			if s.ticker != nil {
				s.ticker.Stop() // stop ticker before waiting
			}
			s.wg.Wait()
		}
	})
	return nil
}
