// Package bigcache adapts allegro/bigcache to the provider contract.
//
// BigCache keeps entries in preallocated shards off the GC heap, which suits
// large sets of encoded entries. It has one cache-wide LifeWindow instead of
// per-entry TTLs: the TTL passed to Set is ignored, so size LifeWindow to the
// longest DefaultTTL among the caches sharing the instance.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"
)

type Provider struct {
	c *bc.BigCache
}

type Config struct {
	LifeWindow         time.Duration // cache-wide entry lifetime; required
	CleanWindow        time.Duration // expired-entry sweep; 0 => bigcache default
	MaxEntriesInWindow int           // shard sizing hint
	MaxEntrySize       int           // shard sizing hint, bytes
	HardMaxCacheSizeMB int           // memory ceiling; 0 => unbounded
}

func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.LifeWindow <= 0 {
		return nil, errors.New("bigcache: life window is required")
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := p.c.Get(key)
	switch {
	case errors.Is(err, bc.ErrEntryNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set stores the value; the per-entry TTL is ignored (see package doc).
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	return true, p.c.Set(key, value)
}

func (p *Provider) Del(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (p *Provider) Close(_ context.Context) error { return p.c.Close() }

// Len reports the number of live entries.
func (p *Provider) Len() int { return p.c.Len() }
