package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/db/dbtest"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/kv"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3/s3test"
	"github.com/greenparkpeyzaj/greenpark/pkg/queue"
)

const testBucket = "greenpark-images"

// recordSink 记录发布的事件主题.
type recordSink struct {
	mu     sync.Mutex
	topics []string
	msgs   []*message.Message
}

func (s *recordSink) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range msgs {
		s.topics = append(s.topics, topic)
		s.msgs = append(s.msgs, m)
	}

	return nil
}

func (s *recordSink) count(topic string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, t := range s.topics {
		if t == topic {
			n++
		}
	}

	return n
}

// clock 可手动推进的时间源.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *clock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

type testEnv struct {
	deps  service.Deps
	store *s3test.Store
	kv    *kv.MemoryKV
	sink  *recordSink
	clock *clock
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := configs.Defaults()
	if err != nil {
		t.Fatal(err)
	}

	cfg.S3 = configs.S3Config{Endpoint: "localhost", Port: 9000, BucketName: testBucket, Region: "us-east-1"}
	cfg.Auth.AdminEmail = "admin@greenparkpeyzaj.com"
	cfg.Auth.AdminPassword = "admin-secret"
	cfg.Auth.BcryptCost = 4
	cfg.Events = configs.EventsConfig{
		Enabled: true,
		Upload:  configs.UploadEventsConfig{Stored: true, Confirmed: true, Deleted: true},
		Content: true,
	}

	clk := &clock{t: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	store := s3test.New()
	store.Now = clk.Now
	mem := kv.NewMemoryStore()
	mem.SetClock(clk.Now)
	sink := &recordSink{}

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	tokens.SetClock(clk.Now)

	return &testEnv{
		deps: service.Deps{
			DB:     dbtest.New(t),
			S3:     s3.NewWithStore(store, cfg.S3),
			KV:     mem,
			Events: queue.NewPublisher(sink, cfg.Events),
			Config: cfg,
			Tokens: tokens,
			Now:    clk.Now,
		},
		store: store,
		kv:    mem,
		sink:  sink,
		clock: clk,
	}
}

func adminCtx() context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{
		ID:    auth.AdminID,
		Email: "admin@greenparkpeyzaj.com",
		Name:  "Admin",
		Role:  model.RoleAdmin,
	})
}

func userCtx(id string) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{ID: id, Email: id + "@example.com", Name: id, Role: model.RoleUser})
}

func ptr[T any](v T) *T { return &v }

func wantKind(t *testing.T, err error, kind errs.Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("err = nil, want %s", kind)
	}

	if got := errs.KindOf(err); got != kind {
		t.Fatalf("kind = %s, want %s (%v)", got, kind, err)
	}
}
