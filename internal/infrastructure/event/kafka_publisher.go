package event

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/storeadmin/backend/internal/domain/order"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const defaultEnqueueTimeout = 2 * time.Second

// KafkaPublisherConfig holds the settings of a KafkaPublisher
type KafkaPublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	// EnqueueTimeout bounds how long Handle may spend handing a message to
	// the writer. Zero uses two seconds.
	EnqueueTimeout time.Duration
	// EventTypes limits the forwarded events. Empty forwards OrderPaid only.
	EventTypes []string
}

// KafkaPublisher forwards domain events from the bus to a Kafka topic.
// Messages are keyed by store so one store's events stay ordered within a
// partition.
type KafkaPublisher struct {
	writer         MessageWriter
	eventTypes     []string
	enqueueTimeout time.Duration
	logger         *zap.Logger
}

// NewKafkaWriter builds an async kafka-go writer for cfg. WriteMessages
// returns once the message is queued; delivery failures are reported to
// logger from the writer's completion callback.
func NewKafkaWriter(cfg KafkaPublisherConfig, logger *zap.Logger) *kafka.Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           cfg.WriteTimeout,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             completionLogger(cfg.Topic, logger),
	}
}

func completionLogger(topic string, logger *zap.Logger) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		ids := make([]string, 0, len(messages))
		for _, msg := range messages {
			for _, h := range msg.Headers {
				if h.Key == "event_id" {
					ids = append(ids, string(h.Value))
				}
			}
		}
		logger.Error("Kafka delivery failed",
			zap.String("topic", topic),
			zap.Strings("event_ids", ids),
			zap.Error(err))
	}
}

// NewKafkaPublisher creates a KafkaPublisher on top of writer
func NewKafkaPublisher(writer MessageWriter, cfg KafkaPublisherConfig, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	types := cfg.EventTypes
	if len(types) == 0 {
		types = []string{order.EventTypeOrderPaid}
	}
	timeout := cfg.EnqueueTimeout
	if timeout <= 0 {
		timeout = defaultEnqueueTimeout
	}
	return &KafkaPublisher{
		writer:         writer,
		eventTypes:     types,
		enqueueTimeout: timeout,
		logger:         logger,
	}
}

// EventTypes implements shared.EventHandler
func (p *KafkaPublisher) EventTypes() []string {
	return p.eventTypes
}

// Handle hands the event to the writer. The write is detached from ctx's
// cancellation and bounded by the enqueue timeout, so a slow broker cannot
// hold up the request that raised the event.
func (p *KafkaPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "event.kafka_publish",
		attribute.String("event.type", event.EventType()),
		attribute.String("event.id", event.EventID().String()))
	defer span.End()

	value, err := Encode(event)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(messageKey(event)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "event_id", Value: []byte(event.EventID().String())},
		},
		Time: event.OccurredAt(),
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.enqueueTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to write %s to kafka: %w", event.EventType(), err)
	}

	logger.WithTraceContext(ctx, p.logger).Debug("Event queued for Kafka",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()))
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// messageKey keys order events by store and everything else by aggregate
func messageKey(event shared.DomainEvent) string {
	if paid, ok := event.(*order.OrderPaidEvent); ok {
		return "store:" + strconv.FormatInt(paid.StoreID, 10)
	}
	return event.AggregateType() + ":" + strconv.FormatInt(event.AggregateID(), 10)
}

var _ shared.EventHandler = (*KafkaPublisher)(nil)
