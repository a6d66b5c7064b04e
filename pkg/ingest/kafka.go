package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/kafkautil"
)

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
	Topic   string   `yaml:"topic"`
}

// KafkaSource consumes market updates from a Kafka topic, one JSON record per
// message, with the same reject-and-continue contract as the TCP source.
type KafkaSource struct {
	consumer *kafkautil.Consumer
	handler  Handler
	log      *zap.SugaredLogger
}

func NewKafkaSource(cfg *KafkaConfig, handler Handler, log *zap.SugaredLogger) *KafkaSource {
	return &KafkaSource{
		consumer: kafkautil.NewConsumer(kafkautil.ConsumerConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   cfg.Topic,
		}),
		handler: handler,
		log:     log,
	}
}

func (s *KafkaSource) Run(ctx context.Context) error {
	defer s.consumer.Close()
	return s.consumer.Run(ctx, func(ctx context.Context, value []byte) error {
		u, err := ParseUpdate(value)
		if err != nil {
			s.log.Warnw("skipping malformed update", "err", err)
			return err
		}
		s.handler(ctx, u)
		return nil
	})
}
