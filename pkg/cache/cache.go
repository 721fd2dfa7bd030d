// Package cache 在 kv.KVStore 之上提供带命名空间的泛型缓存，值以 sonic 编码为 JSON.
//
// 用法:
//
//	c := cache.New(kvClient, "upload:reservation")
//	err := cache.Set(ctx, c, key, record, ttl)
//	record, err := cache.Get[Reservation](ctx, c, key)
//
// 未命中时 Get 返回的错误满足 errors.Is(err, cache.ErrMiss).
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/kv"
)

// ErrMiss 缓存未命中.
var ErrMiss = kv.ErrKeyNotFound

// Cache 基于 KV 存储的缓存，所有键自动加上 "<namespace>:" 前缀.
type Cache struct {
	store     kv.KVStore
	namespace string
}

// New 创建缓存实例，namespace 为空时不加前缀.
func New(store kv.KVStore, namespace string) *Cache {
	return &Cache{store: store, namespace: namespace}
}

func (c *Cache) key(k string) string {
	if c.namespace == "" {
		return k
	}

	return c.namespace + ":" + k
}

// Get 泛型获取缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var value T

	data, err := c.store.Get(ctx, c.key(key))
	if err != nil {
		return value, err
	}

	if err := sonic.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("unmarshal cache value %s: %w", key, err)
	}

	return value, nil
}

// Set 泛型设置缓存值，ttl<=0 表示不过期.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value %s: %w", key, err)
	}

	return c.store.Set(ctx, c.key(key), data, ttl)
}

// GetOrSet 命中时直接返回；未命中或读取失败时调用 getter 并回写，回写失败不影响返回值.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	value, err := getter()
	if err != nil {
		return value, err
	}

	_ = Set(ctx, c, key, value, ttl)

	return value, nil
}

// Entries 返回命名空间内匹配 pattern 的全部条目，键不含命名空间前缀.
// 读取期间过期或无法解码的条目被跳过.
func Entries[T any](ctx context.Context, c *Cache, pattern string) (map[string]T, error) {
	keys, err := c.store.Keys(ctx, c.key(pattern))
	if err != nil {
		return nil, err
	}

	out := make(map[string]T, len(keys))
	prefix := c.key("")

	for _, full := range keys {
		data, err := c.store.Get(ctx, full)
		if errors.Is(err, kv.ErrKeyNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		var value T
		if sonic.Unmarshal(data, &value) != nil {
			continue
		}

		out[strings.TrimPrefix(full, prefix)] = value
	}

	return out, nil
}

// Delete 删除缓存键，键不存在不视为错误.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := c.store.Delete(ctx, c.key(key))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil
	}

	return err
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.store.Exists(ctx, c.key(key))
}

// Clear 删除命名空间内的全部键.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.store.Keys(ctx, c.key("*"))
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
			return err
		}
	}

	return nil
}
