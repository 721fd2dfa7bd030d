// Package mq 提供基于 Watermill 的消息队列客户端，后端可选 NATS（JetStream）或进程内 gochannel.
//
// 使用示例：
//
//	client, err := mq.New(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	msg := message.NewMessage(watermill.NewUUID(), payload)
//	err = client.Publish(ctx, "gp.content.changed", msg)
package mq

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// Factory 定义创建 Publisher + Subscriber 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var factories = map[configs.MQType]Factory{}

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// GetRegisteredMQTypes 返回已注册的 MQ 类型列表，按名称排序.
func GetRegisteredMQTypes() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// Client 封装 watermill Publisher、Subscriber 与处理消费者的 Router.
type Client struct {
	Type       configs.MQType
	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router
	logger     watermill.LoggerAdapter

	runOnce sync.Once
	mu      sync.Mutex
	closed  bool
}

// ErrNotInitialized 客户端为空或已关闭.
var ErrNotInitialized = errors.New("mq client not initialized")

// Publish 发布一条或多条消息.
func (c *Client) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return ErrNotInitialized
	}

	for _, m := range msgs {
		m.SetContext(ctx)
	}

	return c.publisher.Publish(topic, msgs...)
}

// Subscribe 直接订阅主题，调用方负责 Ack.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, ErrNotInitialized
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// AddConsumer 在 Router 上注册一个只消费不产出的处理器，需在 Run 之前调用.
func (c *Client) AddConsumer(name, topic string, fn message.NoPublishHandlerFunc) {
	c.router.AddNoPublisherHandler(name, topic, c.subscriber, fn)
}

// Run 启动 Router（幂等），阻塞直到 Router 开始运行.
func (c *Client) Run(ctx context.Context) {
	c.runOnce.Do(func() {
		go func() {
			if err := c.router.Run(ctx); err != nil {
				nlog.Logger().Error().Err(err).Msg("mq router stopped")
			}
		}()

		<-c.router.Running()
	})
}

// HealthCheck 检查客户端是否可用.
func (c *Client) HealthCheck(_ context.Context) error {
	if c == nil || c.publisher == nil {
		return ErrNotInitialized
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrNotInitialized
	}

	return nil
}

// Close 关闭资源.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	var errs []error

	if c.router != nil {
		errs = append(errs, c.router.Close())
	}

	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}

	if c.subscriber != nil {
		errs = append(errs, c.subscriber.Close())
	}

	return errors.Join(errs...)
}

// New 按全局配置创建消息队列客户端.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().MQ

	return NewWithConfig(ctx, &cfg, configs.GetConfig().Metrics.Enabled)
}

var metricsOnce sync.Once

// NewWithConfig 创建客户端；withMetrics 时把 watermill 指标注册到默认 prometheus 注册表.
func NewWithConfig(ctx context.Context, cfg *configs.MQConfig, withMetrics bool) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", cfg.Type)
	}

	logger := NewLoggerAdapter(nlog.Logger())

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", cfg.Type, err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	if withMetrics {
		// 指标只注册一次，重复注册会 panic
		metricsOnce.Do(func() {
			builder := metrics.NewPrometheusMetricsBuilder(prometheus.DefaultRegisterer, configs.AppName, "mq")
			builder.AddPrometheusRouterMetrics(router)

			if p, e := builder.DecoratePublisher(pub); e == nil {
				pub = p
			}

			if s, e := builder.DecorateSubscriber(sub); e == nil {
				sub = s
			}
		})
	}

	nlog.Logger().Info().Str("type", string(cfg.Type)).Msg("mq client initialized")

	return &Client{Type: cfg.Type, publisher: pub, subscriber: sub, router: router, logger: logger}, nil
}
