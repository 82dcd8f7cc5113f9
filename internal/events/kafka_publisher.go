package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// KafkaPublisher forwards events to a Kafka topic. Records are produced
// asynchronously; delivery failures are logged and never surface to callers.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *zap.Logger
}

// KafkaConfig holds configuration for the publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaPublisher creates a publisher.
func NewKafkaPublisher(cfg KafkaConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10*time.Millisecond),
		kgo.RecordDeliveryTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &KafkaPublisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Handle is an EventHandler; subscribe it with Dispatcher.SubscribeAll.
func (p *KafkaPublisher) Handle(_ context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(string(event.Entity) + ":" + event.EntityID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	// Detached from the request context so a finished request does not abort delivery.
	p.client.Produce(context.Background(), record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("event delivery failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	})
	return nil
}

// Close flushes buffered records and closes the client.
func (p *KafkaPublisher) Close(ctx context.Context) {
	if p == nil || p.client == nil {
		return
	}
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka flush failed", zap.Error(err))
	}
	p.client.Close()
}
