package utils

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// IndexCacheTTL bounds staleness of the cached index listing. Writers do
	// not evict; readers may observe pre-write content until expiry.
	IndexCacheTTL = 20 * time.Second

	cacheKeyPrefix = "cache:pages:"
)

// PageCache is a time-bounded cache of rendered listing output. Set stores a
// value until its ttl passes; Clear drops everything and exists for
// administrative and test paths only.
type PageCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Clear()
}

// NewPageCache returns a Redis-backed cache when Redis is reachable and an
// in-process cache otherwise.
func NewPageCache() PageCache {
	if rc := GetRedis(); rc != nil {
		return &RedisCache{client: rc}
	}
	if Sugar != nil {
		Sugar.Warn("redis unavailable, using in-process page cache")
	}
	return NewLocalCache(512)
}

// RedisCache stores rendered pages in Redis so cache contents survive
// restarts and are shared between replicas.
type RedisCache struct {
	client *redis.Client
}

// Get returns cached bytes for a key.
func (c *RedisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// Set stores bytes with the given TTL.
func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = IndexCacheTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, cacheKeyPrefix+key, value, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

// Clear deletes all page cache keys using SCAN.
func (c *RedisCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := c.client.Scan(ctx, cursor, cacheKeyPrefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}

type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

// LocalCache keeps rendered pages in an in-process LRU with per-entry expiry.
type LocalCache struct {
	lruCache *lru.Cache[string, cacheItem]
}

// NewLocalCache creates a LocalCache holding at most size entries.
func NewLocalCache(size int) *LocalCache {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &LocalCache{lruCache: l}
}

// Get returns the cached value unless it is absent or expired.
func (c *LocalCache) Get(key string) ([]byte, bool) {
	item, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}
	return item.data, true
}

// Set stores a value until ttl passes.
func (c *LocalCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = IndexCacheTTL
	}
	c.lruCache.Add(key, cacheItem{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	})
}

// Clear drops all entries.
func (c *LocalCache) Clear() {
	c.lruCache.Purge()
}
