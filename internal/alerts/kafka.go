package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"harbor-backend/internal/shared/metrics"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher streams alerts to a Kafka topic keyed by check-in ID.
type KafkaPublisher struct {
	writer kafkaWriter
}

// NewKafkaPublisher builds a writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if topic == "" {
		return nil, errors.New("kafka alert topic is required")
	}
	return &KafkaPublisher{writer: &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, msg Message) (err error) {
	defer func() { metrics.IncAlertPublished(SinkKafka, outcome(err)) }()

	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode kafka message: %w", err)
	}
	err = k.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(msg.CheckInID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(msg.RiskLevel)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
