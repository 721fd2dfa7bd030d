package kv_test

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/kv"
)

// TestMemoryKVTTL 过期后读取不到，未过期可读取.
func TestMemoryKVTTL(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	if err := store.Set(ctx, "a", []byte("1"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := store.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil || string(got) != "1" {
		t.Fatalf("get before expiry = %q, %v", got, err)
	}

	now = now.Add(2 * time.Minute)

	if _, err := store.Get(ctx, "a"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after expiry, got %v", err)
	}

	if ok, _ := store.Exists(ctx, "b"); !ok {
		t.Fatal("key without ttl should survive")
	}

	keys, err := store.Keys(ctx, "*")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}

	if len(keys) != 1 || keys[0] != "b" {
		t.Fatalf("keys = %v, want [b]", keys)
	}
}

// TestMemoryKVExpiredThenReset 过期键被惰性清理后，同名键可重新写入并读取.
func TestMemoryKVExpiredThenReset(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	if err := store.Set(ctx, "gp:upload:k", []byte("old"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(26 * time.Hour)

	if ok, err := store.Exists(ctx, "gp:upload:k"); ok || err != nil {
		t.Fatalf("exists after expiry = %v, %v", ok, err)
	}

	if keys, _ := store.Keys(ctx, "gp:upload:*"); len(keys) != 0 {
		t.Fatalf("keys after expiry = %v", keys)
	}

	if err := store.Set(ctx, "gp:upload:k", []byte("new"), time.Hour); err != nil {
		t.Fatalf("reset: %v", err)
	}

	got, err := store.Get(ctx, "gp:upload:k")
	if err != nil || string(got) != "new" {
		t.Fatalf("get after reset = %q, %v", got, err)
	}
}

// TestMemoryKVPattern glob 模式过滤.
func TestMemoryKVPattern(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	for _, k := range []string{"gp:upload:1", "gp:upload:2", "gp:other"} {
		_ = store.Set(ctx, k, []byte("x"), 0)
	}

	keys, _ := store.Keys(ctx, "gp:upload:*")
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2 upload keys", keys)
	}
}

// TestGroupcacheKVDeleteVisible 删除与覆盖后不会读到旧值.
func TestGroupcacheKVDeleteVisible(t *testing.T) {
	ctx := context.Background()
	cfg := &configs.KVConfig{
		Type: configs.KVTypeGroupcache,
		Groupcache: configs.GroupcacheKVConfig{
			Name:       "test-groupcache-delete",
			CacheBytes: 1 << 20,
		},
	}

	store, err := kv.NewKVStore(ctx, cfg)
	if err != nil {
		t.Fatalf("create groupcache kv: %v", err)
	}

	_ = store.Set(ctx, "k", []byte("v1"), 0)
	if v, _ := store.Get(ctx, "k"); string(v) != "v1" {
		t.Fatalf("got %q, want v1", v)
	}

	_ = store.Set(ctx, "k", []byte("v2"), 0)
	if v, _ := store.Get(ctx, "k"); string(v) != "v2" {
		t.Fatalf("got %q, want v2", v)
	}

	_ = store.Delete(ctx, "k")
	if _, err := store.Get(ctx, "k"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}

	if _, err := kv.NewKVStore(ctx, cfg); err == nil {
		t.Fatal("duplicate group name should be rejected")
	}
}

// TestClientKey 前缀拼接.
func TestClientKey(t *testing.T) {
	c := kv.NewClient(kv.NewMemoryStore(), "greenpark:")
	if got := c.Key("upload", "123.png"); got != "greenpark:upload:123.png" {
		t.Fatalf("Key = %q", got)
	}

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func BenchmarkMemoryKV(b *testing.B) {
	store, err := kv.NewKVStore(context.Background(), &configs.KVConfig{Type: configs.KVTypeMemory})
	if err != nil {
		b.Fatalf("create memory kv: %v", err)
	}

	benchKV(b, "memory", store)
	benchKVParallel(b, "memory", store)
	_ = store.Close()
}

// Optional: enable with ENABLE_REDIS_BENCH=1 and REDIS_ADDR set (default 127.0.0.1:6379).
func BenchmarkRedisKV(b *testing.B) {
	if os.Getenv("ENABLE_REDIS_BENCH") == "" {
		b.Skip("set ENABLE_REDIS_BENCH=1 to enable")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	cfg := &configs.KVConfig{Type: configs.KVTypeRedis, Redis: configs.RedisKVConfig{Addr: addr}}

	store, err := kv.NewKVStore(context.Background(), cfg)
	if err != nil {
		b.Skipf("redis not available: %v", err)
	}

	benchKV(b, "redis", store)
	_ = store.Close()
}

// Optional: enable with ENABLE_NATS_BENCH=1 and NATS_URL set (default nats://127.0.0.1:4222).
func BenchmarkNATSKV(b *testing.B) {
	if os.Getenv("ENABLE_NATS_BENCH") == "" {
		b.Skip("set ENABLE_NATS_BENCH=1 to enable")
	}

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://127.0.0.1:4222"
	}

	cfg := &configs.KVConfig{Type: configs.KVTypeNATS, NATS: configs.NATSKVConfig{URL: url, Bucket: "bench-kv"}}

	store, err := kv.NewKVStore(context.Background(), cfg)
	if err != nil {
		b.Skipf("nats not available: %v", err)
	}

	benchKV(b, "nats", store)
	_ = store.Close()
}

func randBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = crand.Read(b)

	return b
}

// benchKV 执行基本的 Set/Get/Delete 基准测试.
func benchKV(b *testing.B, name string, store kv.KVStore) {
	ctx := context.Background()

	for _, size := range []int{32, 1024} {
		payload := randBytes(size)
		for _, ttl := range []time.Duration{0, 5 * time.Second} {
			b.Run(fmt.Sprintf("%s/size=%d/ttl=%s", name, size, ttl), func(b *testing.B) {
				b.ReportAllocs()

				for i := 0; b.Loop(); i++ {
					key := fmt.Sprintf("bench-%s-%d", name, i)
					if err := store.Set(ctx, key, payload, ttl); err != nil {
						b.Fatalf("set failed: %v", err)
					}

					if _, err := store.Get(ctx, key); err != nil {
						b.Fatalf("get failed: %v", err)
					}

					if err := store.Delete(ctx, key); err != nil {
						b.Fatalf("delete failed: %v", err)
					}
				}
			})
		}
	}
}

// benchKVParallel 执行并行的 Set/Get/Delete 基准测试.
func benchKVParallel(b *testing.B, name string, store kv.KVStore) {
	ctx := context.Background()
	payload := randBytes(1024)

	var ctr uint64

	b.Run(name+"/parallel", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				i := atomic.AddUint64(&ctr, 1)

				key := fmt.Sprintf("bench-%s-p-%d", name, i)
				if err := store.Set(ctx, key, payload, 0); err != nil {
					b.Fatalf("set failed: %v", err)
				}

				if _, err := store.Get(ctx, key); err != nil {
					b.Fatalf("get failed: %v", err)
				}
			}
		})
	})
}
