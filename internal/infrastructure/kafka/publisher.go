package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"wishlist-service/internal/domain/event"
	"wishlist-service/pkg/logger"
)

// Envelope is the JSON value of every message on the wishlist topic.
type Envelope struct {
	EventID     string            `json:"event_id"`
	EventType   string            `json:"event_type"`
	AggregateID string            `json:"aggregate_id"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Version     int               `json:"version"`
	Data        event.DomainEvent `json:"data"`
}

// Publisher forwards domain events to Kafka. It is subscribed to the event bus.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	tracer   trace.Tracer
}

// ProducerConfig returns the sarama settings used for the wishlist topic.
func ProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "wishlist-service"
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	return config
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, topic), nil
}

func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		tracer:   otel.Tracer("kafka-publisher"),
	}
}

// Handle publishes evt keyed by customer ID so one customer's events stay ordered.
func (p *Publisher) Handle(ctx context.Context, evt event.DomainEvent) error {
	ctx, span := p.tracer.Start(ctx, "kafka.publish."+evt.EventType(),
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.String("event.type", evt.EventType()),
			attribute.String("wishlist.customer_id", evt.AggregateID()),
		),
	)
	defer span.End()

	envelope := Envelope{
		EventID:     uuid.NewString(),
		EventType:   evt.EventType(),
		AggregateID: evt.AggregateID(),
		OccurredAt:  evt.OccurredAt().UTC(),
		Version:     evt.Version(),
		Data:        evt,
	}
	span.SetAttributes(attribute.String("event.id", envelope.EventID))

	payload, err := json.Marshal(envelope)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(envelope.EventType)},
		{Key: []byte("event_id"), Value: []byte(envelope.EventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(envelope.AggregateID),
		Value:   sarama.ByteEncoder(payload),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send message")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)

	logger.Debug(ctx).
		Str("event_id", envelope.EventID).
		Str("event_type", envelope.EventType).
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("wishlist event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
