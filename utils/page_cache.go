package utils

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cppla/groupfeed/config"
)

// PageCachePrefix namespaces every cached page.
const PageCachePrefix = "cache:page:"

// PageCache stores rendered responses for a bounded time. Every Set replaces
// the whole value, so readers never observe a partially written entry.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry whose key starts with prefix and reports how many went.
	Clear(ctx context.Context, prefix string) (int, error)
	Close() error
}

// NewPageCache builds the backend named by cfg.CacheBackend.
func NewPageCache(cfg config.AppConfig) (PageCache, error) {
	switch cfg.CacheBackend {
	case "redis", "":
		return NewRedisPageCache(NewRedisClient(cfg)), nil
	case "badger":
		return OpenBadgerPageCache(cfg.CacheBadgerPath)
	case "memory":
		return NewMemoryPageCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryPageCache is a single-process PageCache.
type MemoryPageCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryPageCache() *MemoryPageCache {
	return &MemoryPageCache{entries: map[string]memEntry{}, now: time.Now}
}

func (m *MemoryPageCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *MemoryPageCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	buf := append([]byte(nil), value...)
	m.mu.Lock()
	m.entries[key] = memEntry{value: buf, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryPageCache) Clear(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryPageCache) Close() error { return nil }
