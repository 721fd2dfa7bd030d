package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// Sink 发布消息的最小接口，*mq.Client 满足该接口.
type Sink interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Publisher 按事件开关发布领域事件. nil Publisher 或未配置 Sink 时所有方法为空操作.
type Publisher struct {
	sink Sink
	cfg  configs.EventsConfig
}

// NewPublisher 创建发布器. sink 为 nil 时返回的发布器不发送任何消息.
func NewPublisher(sink Sink, cfg configs.EventsConfig) *Publisher {
	return &Publisher{sink: sink, cfg: cfg}
}

// Enabled 判断主题当前是否会被发布.
func (p *Publisher) Enabled(topic string) bool {
	if p == nil || p.sink == nil || !p.cfg.Enabled {
		return false
	}

	switch topic {
	case TopicObjectStored:
		return p.cfg.Upload.Stored
	case TopicImageConfirmed:
		return p.cfg.Upload.Confirmed
	case TopicImageDeleted:
		return p.cfg.Upload.Deleted
	case TopicContentChanged:
		return p.cfg.Content
	default:
		return false
	}
}

// ObjectStored 发布 gp.object.stored.
func (p *Publisher) ObjectStored(ctx context.Context, payload ObjectStoredPayload) {
	publish(ctx, p, TopicObjectStored, payload)
}

// ImageConfirmed 发布 gp.image.confirmed.
func (p *Publisher) ImageConfirmed(ctx context.Context, payload ImageConfirmedPayload) {
	publish(ctx, p, TopicImageConfirmed, payload)
}

// ImageDeleted 发布 gp.image.deleted.
func (p *Publisher) ImageDeleted(ctx context.Context, payload ImageDeletedPayload) {
	publish(ctx, p, TopicImageDeleted, payload)
}

// ContentChanged 发布 gp.content.changed.
func (p *Publisher) ContentChanged(ctx context.Context, payload ContentChangedPayload) {
	publish(ctx, p, TopicContentChanged, payload)
}

func publish[T any](ctx context.Context, p *Publisher, topic string, payload T) {
	if !p.Enabled(topic) {
		return
	}

	opts := []func(*EventHeader){WithProducer(configs.AppName)}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		opts = append(opts, WithTraceID(sc.TraceID().String()))
	}

	l := nlog.Logger()

	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		l.Warn().Err(err).Str("topic", topic).Msg("encode event failed")

		return
	}

	if err := p.sink.Publish(ctx, topic, msg); err != nil {
		l.Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}
