package mq

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
)

const (
	DefaultDrainTimeout   = 30 * time.Second
	DefaultFlusherTimeout = 10 * time.Second
)

func init() {
	RegisterFactory(configs.MQTypeNATS, natsFactory)
}

// buildNatsOptions 构建 NATS 连接选项.
func buildNatsOptions(cfg *configs.MQConfig) []nc.Option {
	common := cfg.Common

	opts := []nc.Option{
		nc.Name(common.ClientID),
		nc.MaxReconnects(common.MaxReconnects),
		nc.ReconnectWait(time.Duration(common.ReconnectWait) * time.Second),
		nc.PingInterval(time.Duration(common.PingInterval) * time.Second),
		nc.MaxPingsOutstanding(common.MaxPingsOut),
		nc.DrainTimeout(DefaultDrainTimeout),
		nc.FlusherTimeout(DefaultFlusherTimeout),
		nc.RetryOnFailedConnect(true),
	}

	if !common.ReconnectJitter {
		opts = append(opts, nc.ReconnectJitter(0, 0))
	}

	if common.User != "" {
		opts = append(opts, nc.UserInfo(common.User, common.Password))
	}

	return opts
}

// buildJetStreamConfig 构建 JetStream 配置.
func buildJetStreamConfig(cfg *configs.MQConfig) nats.JetStreamConfig {
	js := cfg.NATS

	jsCfg := nats.JetStreamConfig{Disabled: !js.JetStreamEnabled}
	if !js.JetStreamEnabled {
		return jsCfg
	}

	jsCfg.AutoProvision = js.JetStreamAutoProvision
	jsCfg.TrackMsgId = js.JetStreamTrackMsgID
	jsCfg.AckAsync = js.JetStreamAckAsync
	jsCfg.DurablePrefix = js.JetStreamDurablePrefix
	jsCfg.SubscribeOptions = []nc.SubOpt{
		nc.AckWait(time.Duration(js.ConsumerAckWait) * time.Second),
		nc.MaxDeliver(js.ConsumerMaxDeliver),
		nc.DeliverNew(),
	}

	return jsCfg
}

// natsFactory 创建 NATS Publisher & Subscriber.
func natsFactory(
	_ context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	opts := buildNatsOptions(cfg)
	jsCfg := buildJetStreamConfig(cfg)
	marshaler := &nats.NATSMarshaler{}
	subjectCalc := nats.DefaultSubjectCalculator

	if prefix := cfg.NATS.SubjectPrefix; prefix != "" {
		subjectCalc = func(queueGroupPrefix, topic string) *nats.SubjectDetail {
			return nats.DefaultSubjectCalculator(queueGroupPrefix, prefix+topic)
		}
	}

	pub, err := nats.NewPublisher(nats.PublisherConfig{
		URL:               cfg.Common.URL,
		NatsOptions:       opts,
		JetStream:         jsCfg,
		Marshaler:         marshaler,
		SubjectCalculator: subjectCalc,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	sub, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:               cfg.Common.URL,
		NatsOptions:       opts,
		JetStream:         jsCfg,
		Unmarshaler:       marshaler,
		SubjectCalculator: subjectCalc,
		QueueGroupPrefix:  cfg.NATS.QueueGroupPrefix,
		AckWaitTimeout:    time.Duration(cfg.NATS.ConsumerAckWait) * time.Second,
	}, logger)
	if err != nil {
		_ = pub.Close()

		return nil, nil, err
	}

	logger.Info("nats mq connected", watermill.LogFields{
		"url":       cfg.Common.URL,
		"jetstream": cfg.NATS.JetStreamEnabled,
	})

	return pub, sub, nil
}
