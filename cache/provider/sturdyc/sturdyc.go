// Package sturdyc adapts a viccon/sturdyc client to the provider contract.
package sturdyc

import (
	"context"
	"errors"
	"time"

	sc "github.com/viccon/sturdyc"
)

type Provider struct {
	c *sc.Client[[]byte]
}

type Config struct {
	Capacity           int
	NumShards          int           // 0 => 64
	TTL                time.Duration // client-wide; see Set
	EvictionPercentage int           // 0 => 10
}

func New(cfg Config) (*Provider, error) {
	if cfg.Capacity <= 0 || cfg.TTL <= 0 {
		return nil, errors.New("sturdyc: capacity and ttl are required")
	}
	shards := cfg.NumShards
	if shards <= 0 {
		shards = 64
	}
	evict := cfg.EvictionPercentage
	if evict <= 0 {
		evict = 10
	}
	return &Provider{c: sc.New[[]byte](cfg.Capacity, shards, cfg.TTL, evict)}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		// self-heal: drop unexpected entry shape
		p.c.Delete(key)
		return nil, false, nil
	}
	return v, true, nil
}

// Set stores the value. sturdyc applies one client-wide TTL; the per-entry
// TTL is ignored, so size Config.TTL to the longest entry TTL in use.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	p.c.Set(key, value)
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Delete(key)
	return nil
}

func (p *Provider) Close(_ context.Context) error { return nil }
