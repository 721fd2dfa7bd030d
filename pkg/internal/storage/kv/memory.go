package kv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
)

// memoryEntry 以指针存入 sync.Map，惰性删除时按指针比较.
type memoryEntry struct {
	raw []byte
}

// MemoryKV 基于 sync.Map 的单进程 KV 实现，过期键在读取时惰性删除.
type MemoryKV struct {
	data sync.Map
	now  func() time.Time
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(_ context.Context, _ *configs.KVConfig) (KVStore, error) {
	return &MemoryKV{now: time.Now}, nil
}

// NewMemoryStore 返回可直接使用的内存存储，测试中常用.
func NewMemoryStore() *MemoryKV {
	return &MemoryKV{now: time.Now}
}

// SetClock 替换时间源.
func (m *MemoryKV) SetClock(now func() time.Time) {
	m.now = now
}

func (m *MemoryKV) load(key string) ([]byte, bool, error) {
	value, exists := m.data.Load(key)
	if !exists {
		return nil, false, nil
	}

	entry, ok := value.(*memoryEntry)
	if !ok {
		return nil, false, fmt.Errorf("invalid value type for key: %s", key)
	}

	val, expired, err := decodeWithTTL(entry.raw, m.now())
	if err != nil {
		return nil, false, err
	}

	if expired {
		// 只删除读到的那一版，并发 Set 写入的新值保留
		m.data.CompareAndDelete(key, entry)

		return nil, false, nil
	}

	return val, true, nil
}

// Get 获取键的值.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	val, ok, err := m.load(key)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	result := make([]byte, len(val))
	copy(result, val)

	return result, nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)

	encoded, err := encodeWithTTL(data, ttl, m.now())
	if err != nil {
		return err
	}

	m.data.Store(key, &memoryEntry{raw: encoded})

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.data.Delete(key)

	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok, err := m.load(key)

	return ok, err
}

// Keys 获取匹配模式的键.
func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0)

	m.data.Range(func(key, _ any) bool {
		k, ok := key.(string)
		if !ok || !matchPattern(pattern, k) {
			return true
		}

		if _, live, err := m.load(k); err == nil && live {
			keys = append(keys, k)
		}

		return true
	})

	return keys, nil
}

// Close 内存实现无需释放资源.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(configs.KVTypeMemory, NewMemoryKV)
}
