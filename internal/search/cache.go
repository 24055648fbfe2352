package search

import (
	"context"
	"sync"
	"time"

	"github.com/example/skyfare/internal/obs"
	"golang.org/x/sync/singleflight"
)

const (
	sweepThreshold = 1024

	// bounds a shared computation when the leading caller has no deadline
	defaultComputeTimeout = 10 * time.Second
)

type CacheService interface {
	GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) ([]byte, error)) ([]byte, bool, error)
}

type cacheEntry struct {
	val    []byte
	expiry time.Time
}

// Cache keeps successful upstream bodies for ttl and collapses concurrent
// computations of the same key into one call. Errors are never stored.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   map[string]cacheEntry
	group   singleflight.Group
	metrics *obs.Metrics
	now     func() time.Time
}

func NewCache(ttl time.Duration, m *obs.Metrics) *Cache {
	return &Cache{ttl: ttl, items: make(map[string]cacheEntry), metrics: m, now: time.Now}
}

func (c *Cache) GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	if val, ok := c.get(key); ok {
		if c.metrics != nil {
			c.metrics.IncCacheHits()
		}
		return val, true, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// followers share this call, so one caller going away must not cancel it
		sctx, cancel := sharedContext(ctx)
		defer cancel()

		res, err := fn(sctx)
		if err != nil {
			return nil, err
		}
		c.set(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		return r.Val.([]byte), false, nil
	}
}

func sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return context.WithTimeout(detached, defaultComputeTimeout)
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiry) {
		delete(c.items, key)
		return nil, false
	}
	return entry.val, true
}

func (c *Cache) set(key string, val []byte) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.items) >= sweepThreshold {
		for k, e := range c.items {
			if !now.Before(e.expiry) {
				delete(c.items, k)
			}
		}
	}
	c.items[key] = cacheEntry{val: val, expiry: now.Add(c.ttl)}
}
