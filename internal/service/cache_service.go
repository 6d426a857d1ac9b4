package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache - хранилище сериализованных значений с TTL.
// Значения кладутся как JSON, поэтому обе реализации ведут себя одинаково.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateByPrefix(ctx context.Context, prefix string) error
}

// Ключи кэша.
const (
	CacheKeyHeroes     = "heroes:list"
	CacheKeyCategories = "categories:list"
	CachePrefixHeroes  = "heroes:"
)

// GetOrSet достаёт значение из кэша или вычисляет и сохраняет его.
// Ошибка кэша не мешает ответу: значение просто вычисляется заново.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if c != nil {
		if found, err := c.Get(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	value, err := fn()
	if err != nil {
		return value, err
	}

	if c != nil {
		_ = c.Set(ctx, key, value, ttl)
	}
	return value, nil
}

// MemoryCache provides in-memory caching with TTL and invalidation support.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new cache. Cleanup stops when ctx is done.
func NewMemoryCache(ctx context.Context) *MemoryCache {
	mc := &MemoryCache{
		cache: make(map[string]*cacheEntry),
		now:   time.Now,
	}
	go mc.cleanup(ctx)
	return mc
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	mc.mu.RLock()
	entry, exists := mc.cache[key]
	mc.mu.RUnlock()

	if !exists || mc.now().After(entry.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.cache[key] = &cacheEntry{data: data, expiresAt: mc.now().Add(ttl)}
	return nil
}

// InvalidateByPrefix removes all keys with the given prefix.
func (mc *MemoryCache) InvalidateByPrefix(_ context.Context, prefix string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for key := range mc.cache {
		if strings.HasPrefix(key, prefix) {
			delete(mc.cache, key)
		}
	}
	return nil
}

// cleanup removes expired entries periodically.
func (mc *MemoryCache) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mc.mu.Lock()
			now := mc.now()
			for key, entry := range mc.cache {
				if now.After(entry.expiresAt) {
					delete(mc.cache, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}

// RedisCache хранит значения в Redis, что позволяет делить кэш между репликами.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache подключается к Redis по URL вида redis://host:6379/0.
func NewRedisCache(ctx context.Context, rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cache: некорректный REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis недоступен: %w", err)
	}
	return &RedisCache{client: client, prefix: "superfix:"}, nil
}

func (rc *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := rc.client.Get(ctx, rc.prefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return rc.client.Set(ctx, rc.prefix+key, data, ttl).Err()
}

// InvalidateByPrefix удаляет ключи через SCAN, не блокируя Redis как KEYS.
func (rc *RedisCache) InvalidateByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, rc.prefix+prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
