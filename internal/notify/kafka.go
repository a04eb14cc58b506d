package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"perfume-backend/internal/models"
)

// Producer is the slice of the franz-go client the event sink needs.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// EventSink writes order summaries to a Kafka topic, fire-and-forget.
type EventSink struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

func NewEventSink(producer Producer, topic string, logger *slog.Logger) *EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventSink{producer: producer, topic: topic, logger: logger.With("component", "kafka")}
}

// NewKafkaClient returns nil when no brokers are configured.
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
}

func (s *EventSink) HandleOrderCreated(ctx context.Context, order models.Order) {
	value, err := json.Marshal(NewOrderSummary(order))
	if err != nil {
		s.logger.Error("encode order event", slog.String("orderId", order.ID.Hex()), slog.Any("error", err.Error()))
		return
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(order.ID.Hex()),
		Value: value,
	}
	// The record outlives the handler's deadline, so production is detached.
	s.producer.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			s.logger.Error("produce order event", slog.String("orderId", string(r.Key)), slog.Any("error", err.Error()))
			return
		}
		s.logger.Debug("order event produced", slog.String("orderId", string(r.Key)), slog.Int64("offset", r.Offset))
	})
}
