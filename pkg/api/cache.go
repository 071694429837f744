package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// resultCache holds successful responses for a short TTL and collapses
// concurrent identical requests into one upstream call. Errors are never
// cached.
type resultCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry

	group singleflight.Group
}

type cacheEntry struct {
	resp    *Response
	expires time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// do returns the cached response for key or calls fetch. hit reports
// whether the response came from the cache.
//
// The shared fetch runs detached from ctx so one caller giving up does not
// fail the others waiting on the same key. Each caller still returns as soon
// as its own ctx is done.
func (c *resultCache) do(ctx context.Context, key string, fetch func(context.Context) (*Response, error)) (resp *Response, hit bool, err error) {
	if resp, ok := c.get(key); ok {
		return resp, true, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if resp, ok := c.get(key); ok {
			return resp, nil
		}
		resp, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.put(key, resp)
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*Response), false, nil
	}
}

func (c *resultCache) get(key string) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.resp, true
}

func (c *resultCache) put(key string, resp *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{resp: resp, expires: now.Add(c.ttl)}
}
