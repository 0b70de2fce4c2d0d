package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"bookforge-api/internal/domain/repository"
)

var cacheTracer = otel.Tracer("redis.cache")

// ErrCacheMiss loader 返回此错误表示源数据不存在，结果不会写入缓存
var ErrCacheMiss = errors.New("cache miss")

// Cache 读穿缓存
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache 创建缓存服务
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// GetOrLoadSafe 使用 singleflight 防止缓存击穿
func (c *Cache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetOrLoadSafe",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Bytes()
	if err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return val, nil
	}
	if !IsNil(err) {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	result, err, shared := c.group.Do(key, func() (any, error) {
		// 再次检查缓存（可能已被其他请求填充）
		if val, err := c.client.rdb.Get(ctx, key).Bytes(); err == nil {
			return val, nil
		}

		data, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.client.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			// 缓存写入失败不影响返回结果
			span.RecordError(err)
		}
		return data, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))

	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			span.RecordError(err)
		}
		return nil, err
	}
	return result.([]byte), nil
}

// Delete 删除缓存
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))))
	defer span.End()

	return c.client.rdb.Del(ctx, keys...).Err()
}

// InvalidatePattern 按模式使缓存失效
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.InvalidatePattern",
		trace.WithAttributes(attribute.String("cache.pattern", pattern)))
	defer span.End()

	iter := c.client.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	span.SetAttributes(attribute.Int("cache.invalidated_count", len(keys)))
	return len(keys), c.client.rdb.Del(ctx, keys...).Err()
}

// CachedStore 在持久后端前加一层读穿缓存，写入后删除缓存
type CachedStore struct {
	backend repository.KVStore
	cache   *Cache
	ttl     time.Duration
}

// NewCachedStore 创建带缓存的文档存储
func NewCachedStore(backend repository.KVStore, cache *Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{backend: backend, cache: cache, ttl: ttl}
}

func cacheKey(namespace, key string) string {
	return fmt.Sprintf("cache:doc:%s:%s", namespace, key)
}

func (s *CachedStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	val, err := s.cache.GetOrLoadSafe(ctx, cacheKey(namespace, key), s.ttl, func(ctx context.Context) ([]byte, error) {
		v, found, err := s.backend.Get(ctx, namespace, key)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrCacheMiss
		}
		return v, nil
	})
	switch {
	case errors.Is(err, ErrCacheMiss):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return val, true, nil
}

func (s *CachedStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.backend.Set(ctx, namespace, key, value); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey(namespace, key))
}

// InvalidateNamespace 清理某个命名空间下的全部缓存
func (s *CachedStore) InvalidateNamespace(ctx context.Context, namespace string) (int, error) {
	return s.cache.InvalidatePattern(ctx, cacheKey(namespace, "*"))
}

func (s *CachedStore) HealthCheck(ctx context.Context) error {
	if hc, ok := s.backend.(repository.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return err
		}
	}
	return s.cache.client.HealthCheck(ctx)
}
