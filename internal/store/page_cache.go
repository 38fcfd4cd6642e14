package store

import (
	"context"
	"encoding/json"
	"time"
)

// PageKeyPrefix namespaces cached marketing page content.
const PageKeyPrefix = "marketing:page:"

// PageCache caches marketing page content by page key.
type PageCache struct {
	kv  KV
	ttl time.Duration
}

func NewPageCache(kv KV, ttl time.Duration) *PageCache {
	return &PageCache{kv: kv, ttl: ttl}
}

// Get returns ErrMiss when the page is not cached.
func (c *PageCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	val, err := c.kv.Get(ctx, PageKeyPrefix+key)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(val), nil
}

// Set overwrites the cached page; used after a store write.
func (c *PageCache) Set(ctx context.Context, key string, content json.RawMessage) error {
	return c.kv.Set(ctx, PageKeyPrefix+key, content, c.ttl)
}

// Fill caches content read from the store unless the key is already cached,
// so a fill racing an update never replaces the newer content.
func (c *PageCache) Fill(ctx context.Context, key string, content json.RawMessage) (bool, error) {
	return c.kv.SetNX(ctx, PageKeyPrefix+key, content, c.ttl)
}

func (c *PageCache) Invalidate(ctx context.Context, key string) error {
	return c.kv.Delete(ctx, PageKeyPrefix+key)
}

// Purge drops every cached page and returns how many keys were removed.
func (c *PageCache) Purge(ctx context.Context) (int, error) {
	keys, err := c.kv.Keys(ctx, PageKeyPrefix)
	if err != nil {
		return 0, err
	}
	if err := c.kv.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}
