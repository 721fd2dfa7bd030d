package queue

import (
	"github.com/ThreeDotsLabs/watermill/message"

	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// Consumer 可注册只消费处理器的队列客户端，*mq.Client 满足该接口.
type Consumer interface {
	AddConsumer(name, topic string, fn message.NoPublishHandlerFunc)
}

// RegisterAudit 为全部主题注册审计处理器，需在 Run 之前调用.
func RegisterAudit(c Consumer) {
	for _, topic := range AllTopics {
		c.AddConsumer("audit."+topic, topic, AuditHandler)
	}
}

// AuditHandler 把事件写入日志. 无法解析的消息记录后丢弃，不重投.
func AuditHandler(msg *message.Message) error {
	l := nlog.Logger()

	env, err := Decode[map[string]any](msg.Payload)
	if err != nil {
		l.Warn().Err(err).Str("message_id", msg.UUID).Msg("drop undecodable event")

		return nil
	}

	l.Info().
		Str("component", "audit").
		Str("topic", env.Header.Topic).
		Str("trace_id", env.Header.TraceID).
		Time("occurred_at", env.Header.OccurredAt).
		Interface("payload", env.Payload).
		Msg("event")

	return nil
}
