package kv

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
)

// GroupcacheKV 以本地 map 为数据源、groupcache 为读缓存的 KV 实现.
// groupcache 不支持失效，因此缓存键带上版本号，Set/Delete 后旧版本自然不可达.
type GroupcacheKV struct {
	group   *groupcache.Group
	peers   *groupcache.HTTPPool
	data    map[string][]byte
	version map[string]uint64
	seq     uint64
	mu      sync.RWMutex
}

type groupcacheGetter struct {
	kv *GroupcacheKV
}

// Get 由 groupcache 在未命中时回源调用，key 形如 "<版本>|<业务键>".
func (g *groupcacheGetter) Get(_ context.Context, key string, dest groupcache.Sink) error {
	g.kv.mu.RLock()
	value, exists := g.kv.data[key]
	g.kv.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	return dest.SetBytes(value)
}

// NewGroupcacheKV 创建 Groupcache KV 实例.
func NewGroupcacheKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	gcConfig := cfg.Groupcache

	kv := &GroupcacheKV{
		data:    make(map[string][]byte),
		version: make(map[string]uint64),
	}

	// 同名 group 在进程内只能注册一次
	if groupcache.GetGroup(gcConfig.Name) != nil {
		return nil, fmt.Errorf("groupcache group %q already registered", gcConfig.Name)
	}

	kv.group = groupcache.NewGroup(gcConfig.Name, gcConfig.CacheBytes, &groupcacheGetter{kv: kv})

	if len(gcConfig.Peers) > 0 {
		kv.peers = groupcache.NewHTTPPoolOpts(gcConfig.Self, &groupcache.HTTPPoolOptions{})
		kv.peers.Set(gcConfig.Peers...)
	}

	return kv, nil
}

func versionedKey(ver uint64, key string) string {
	return strconv.FormatUint(ver, 10) + "|" + key
}

// Get 获取键的值.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	g.mu.RLock()
	ver, ok := g.version[key]
	g.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	var raw []byte
	if err := g.group.Get(ctx, versionedKey(ver, key), groupcache.AllocatingByteSliceSink(&raw)); err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	val, expired, err := decodeWithTTL(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		_ = g.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	return val, nil
}

// Set 设置键的值.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(value, ttl, time.Now())
	if err != nil {
		return err
	}

	data := make([]byte, len(encoded))
	copy(data, encoded)

	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.version[key]; ok {
		delete(g.data, versionedKey(old, key))
	}

	g.seq++
	g.version[key] = g.seq
	g.data[versionedKey(g.seq, key)] = data

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ver, ok := g.version[key]; ok {
		delete(g.data, versionedKey(ver, key))
		delete(g.version, key)
	}

	return nil
}

// Exists 检查键是否存在.
func (g *GroupcacheKV) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := g.Get(ctx, key); err != nil {
		return false, nil
	}

	return true, nil
}

// Keys 获取匹配模式的键.
func (g *GroupcacheKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	g.mu.RLock()
	candidates := make([]string, 0, len(g.version))

	for key := range g.version {
		if matchPattern(pattern, key) {
			candidates = append(candidates, key)
		}
	}
	g.mu.RUnlock()

	keys := candidates[:0]

	for _, key := range candidates {
		if ok, _ := g.Exists(ctx, key); ok {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Close Groupcache 没有显式的关闭方法.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(configs.KVTypeGroupcache, NewGroupcacheKV)
}
