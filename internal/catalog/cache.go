package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache stores encoded item pages.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSource serves item pages from a PageCache before asking the backend.
type CachedSource struct {
	next   ItemSource
	cache  PageCache
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedSource wraps next with cache. A nil logger discards cache errors.
func NewCachedSource(next ItemSource, cache PageCache, ttl time.Duration, logger *log.Logger) *CachedSource {
	return &CachedSource{next: next, cache: cache, ttl: ttl, logger: logger}
}

// PageKey is the cache key for q.
func PageKey(q ItemQuery) string {
	return "vitrina:items:" + QueryValues(q).Encode()
}

// FetchItems implements ItemSource. Empty pages are not cached so end of
// data is always confirmed by the backend.
func (s *CachedSource) FetchItems(ctx context.Context, q ItemQuery) ([]Item, error) {
	key := PageKey(q)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logf("page cache get %s: %v", key, err)
	} else if ok {
		var items []Item
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		s.logf("page cache entry %s is corrupt, refetching", key)
	}

	items, err := s.next.FetchItems(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logf("page cache set %s: %v", key, err)
	}
	return items, nil
}

func (s *CachedSource) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// RedisPageCache keeps pages in Redis.
type RedisPageCache struct {
	client *redis.Client
}

// NewRedisPageCache connects to addr lazily; go-redis dials on first use.
func NewRedisPageCache(addr, password string) *RedisPageCache {
	return &RedisPageCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
	}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return raw, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisPageCache) Close() error {
	return c.client.Close()
}
