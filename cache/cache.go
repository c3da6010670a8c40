package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	c "github.com/unkn0wn-root/storecore/cache/codec"
	pr "github.com/unkn0wn-root/storecore/cache/provider"
	vs "github.com/unkn0wn-root/storecore/cache/versionstore"
)

const (
	defaultTTL       = 10 * time.Minute
	defaultSweep     = time.Hour
	defaultRetention = 30 * 24 * time.Hour
	defaultSeparator = byte(':')
)

type cache[V any] struct {
	ns       string
	provider pr.Provider
	codec    c.Codec[V]
	log      Logger
	hooks    Hooks

	enabled bool
	ttl     time.Duration
	sep     byte

	versions    vs.Store
	ownVersions bool // close the store only when this cache created it
	tags        *tagIndex

	computeSetCost SetCostFunc
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("cache: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("cache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("cache: namespace is required")
	}

	cc := &cache[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		enabled:  !opts.Disabled,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	cc.ttl = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)
	cc.sep = coalesce[byte](opts.TagSeparator, defaultSeparator)
	cc.tags = newTagIndex()

	if opts.ComputeSetCost != nil {
		cc.computeSetCost = opts.ComputeSetCost
	} else {
		cc.computeSetCost = func(_ string, _ []byte) int64 { return 1 }
	}

	if opts.Versions != nil {
		cc.versions = opts.Versions
	} else {
		sweep := coalesce[time.Duration](opts.CleanupInterval, defaultSweep)
		retention := coalesce[time.Duration](opts.VersionRetention, defaultRetention)
		cc.versions = vs.NewLocal(sweep, retention)
		cc.ownVersions = true
	}

	return cc, nil
}

func (c *cache[V]) Enabled() bool { return c.enabled }

func (c *cache[V]) Close(ctx context.Context) error {
	if c.ownVersions && c.versions != nil {
		_ = c.versions.Close(ctx)
	}
	if c.provider != nil {
		return c.provider.Close(ctx)
	}
	return nil
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if !c.enabled {
		return zero, false
	}
	ver, err := c.versions.Current(ctx, key)
	if err != nil {
		// conservative: a version we cannot read is a miss
		c.log.Warn("version read failed; treating as miss", Fields{"key": key, "err": err})
		c.hooks.BackendError("version", key, err)
		return zero, false
	}
	k := physicalKey(c.ns, key, ver)
	raw, ok, err := c.provider.Get(ctx, k)
	if err != nil {
		c.log.Warn("provider get failed; treating as miss", Fields{"key": key, "err": err})
		c.hooks.BackendError("get", k, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	v, err := c.codec.Decode(raw)
	if err != nil {
		_ = c.provider.Del(ctx, k) // self-heal corrupt entry
		c.log.Debug("decode failed; entry dropped", Fields{"key": key, "err": err})
		c.hooks.SelfHeal(k, "value_decode")
		return zero, false
	}
	return v, true
}

func (c *cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	if !c.enabled {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	ver, err := c.versions.Current(ctx, key)
	if err != nil {
		c.log.Warn("version read failed; set skipped", Fields{"key": key, "err": err})
		c.hooks.BackendError("version", key, err)
		return
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		c.log.Error("encode failed; set skipped", Fields{"key": key, "err": err})
		c.hooks.BackendError("encode", key, err)
		return
	}

	// Register before the write so a racing RemoveByPattern cannot miss the
	// key. Indexing a key whose write then fails is harmless: removing a
	// dead key is a no-op.
	c.tags.add(tagOf(key, c.sep), key)

	k := physicalKey(c.ns, key, ver)
	ok, err := c.provider.Set(ctx, k, payload, c.computeSetCost(k, payload), ttl)
	if err != nil {
		c.log.Warn("provider set failed", Fields{"key": key, "err": err})
		c.hooks.BackendError("set", k, err)
		return
	}
	if !ok {
		c.log.Debug("set rejected by provider (pressure)", Fields{"key": key})
		c.hooks.SetRejected(k)
	}
}

func (c *cache[V]) Remove(ctx context.Context, key string) {
	if !c.enabled {
		return
	}
	c.tags.remove(tagOf(key, c.sep), key)

	newVer, bumpErr := c.versions.Bump(ctx, key)
	var delErr error
	if bumpErr == nil {
		// best-effort delete of the superseded generation; the bump already
		// made it unreachable
		delErr = c.provider.Del(ctx, physicalKey(c.ns, key, newVer-1))
	}
	if bumpErr == nil && delErr == nil {
		c.log.Debug("removed key (bumped version + cleared entry)", Fields{"key": key, "newVersion": newVer})
		return
	}

	rerr := &RemoveError{Key: key, BumpErr: bumpErr, DelErr: delErr}
	c.log.Error("remove degraded; entry live until TTL", Fields{"key": key, "err": rerr})
	if bumpErr != nil {
		c.hooks.RemoveOutage(key, rerr)
	}
}

func (c *cache[V]) RemoveByPattern(ctx context.Context, pattern string) {
	if !c.enabled {
		return
	}
	prefix := strings.TrimSuffix(pattern, "*")
	matches := c.tags.match(prefix)
	for _, k := range matches {
		c.Remove(ctx, k)
	}
	c.log.Debug("pattern invalidation", Fields{"prefix": prefix, "matched": len(matches)})
	c.hooks.PatternInvalidated(prefix, len(matches))
}
