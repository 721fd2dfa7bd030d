// Package kv 提供用于键值存储的接口和实现，后端可选 memory、redis、nats 与 groupcache.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
)

// ErrKeyNotFound 键不存在或已过期.
var ErrKeyNotFound = errors.New("kv: key not found")

// Client 包装 KVStore，并为业务键加上统一前缀.
type Client struct {
	KVStore

	prefix string
}

// KVStore 定义键值存储接口.
type KVStore interface {
	// Get 获取键的值，不存在时返回 ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 设置键的值，ttl<=0 表示不过期.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete 删除键.
	Delete(ctx context.Context, key string) error
	// Exists 检查键是否存在.
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 获取匹配 glob 模式的键.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Close 关闭存储连接.
	Close() error
}

// KVFactory 定义创建 KVStore 的工厂函数类型.
type KVFactory func(ctx context.Context, cfg *configs.KVConfig) (KVStore, error)

// kvFactories 存储 KV 类型到工厂的映射.
var kvFactories = make(map[configs.KVType]KVFactory)

// RegisterKVFactory 注册 KV 工厂函数.
func RegisterKVFactory(kvType configs.KVType, factory KVFactory) {
	kvFactories[kvType] = factory
}

// GetRegisteredKVTypes 返回已注册的 KV 类型列表.
func GetRegisteredKVTypes() []configs.KVType {
	types := make([]configs.KVType, 0, len(kvFactories))
	for kvType := range kvFactories {
		types = append(types, kvType)
	}

	return types
}

// NewKVStore 根据类型创建 KVStore 实例.
func NewKVStore(ctx context.Context, cfg *configs.KVConfig) (KVStore, error) {
	factory, exists := kvFactories[cfg.Type]
	if !exists {
		return nil, fmt.Errorf("unsupported KV type: %s", cfg.Type)
	}

	return factory(ctx, cfg)
}

// NewKVClient 按全局配置创建 KV 客户端.
func NewKVClient(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().KV

	store, err := NewKVStore(ctx, &cfg)
	if err != nil {
		return nil, err
	}

	return NewClient(store, cfg.Prefix), nil
}

// NewClient 用已有的存储构造客户端.
func NewClient(store KVStore, prefix string) *Client {
	return &Client{KVStore: store, prefix: prefix}
}

// Key 拼接带前缀的业务键.
func (c *Client) Key(parts ...string) string {
	k := c.prefix
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}

		k += p
	}

	return k
}

// HealthCheck 写入并读取一个短期探针键.
func (c *Client) HealthCheck(ctx context.Context) error {
	key := c.Key("health")
	if err := c.Set(ctx, key, []byte("ok"), time.Minute); err != nil {
		return err
	}

	_, err := c.Get(ctx, key)

	return err
}

// matchPattern 使用 glob 语法匹配，空模式匹配全部.
func matchPattern(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, key)

	return err == nil && ok
}
