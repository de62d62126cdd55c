package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPageCache shares cached pages between instances through Redis.
type RedisPageCache struct {
	rc *redis.Client
}

func NewRedisPageCache(rc *redis.Client) *RedisPageCache {
	return &RedisPageCache{rc: rc}
}

// Get returns cached bytes for a key. Redis errors count as a miss.
func (c *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Warnf("cache get failed key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// Set stores the value with a TTL; SET replaces the value atomically.
func (c *RedisPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rc.Set(ctx, key, value, ttl).Err()
}

// Clear deletes keys that match the given prefix using SCAN.
func (c *RedisPageCache) Clear(ctx context.Context, prefix string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.rc.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (c *RedisPageCache) Close() error { return c.rc.Close() }
