package kafka

import (
	"context"
	"fmt"

	"github.com/wms-platform/wave-optimizer-service/internal/domain"
	"github.com/wms-platform/wave-optimizer-service/pkg/kafka"
)

// EventPublisher implements domain.EventPublisher using Kafka
type EventPublisher struct {
	producer *kafka.CircuitBreakerProducer
	source   string
	topic    string
}

// NewEventPublisher creates a new Kafka-based event publisher
func NewEventPublisher(producer *kafka.CircuitBreakerProducer, source, topic string) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		source:   source,
		topic:    topic,
	}
}

// Publish publishes a single domain event to Kafka
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	msg := kafka.NewEvent(event.EventType(), p.source, subjectOf(event), event)

	if err := p.producer.PublishEvent(ctx, p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to kafka: %w", err)
	}

	return nil
}

// PublishAll publishes multiple domain events to Kafka
func (p *EventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := make([]*kafka.Event, 0, len(events))
	for _, event := range events {
		batch = append(batch, kafka.NewEvent(event.EventType(), p.source, subjectOf(event), event))
	}

	if err := p.producer.PublishBatch(ctx, p.topic, batch); err != nil {
		return fmt.Errorf("failed to publish events to kafka: %w", err)
	}

	return nil
}

// subjectOf derives the partition key so all events of one plan stay ordered
func subjectOf(event domain.DomainEvent) string {
	switch e := event.(type) {
	case *domain.WavePlanRequestedEvent:
		return "wave-plan/" + e.PlanID
	case *domain.WavePlanSolvedEvent:
		return "wave-plan/" + e.PlanID
	case *domain.WavePlanNoSolutionEvent:
		return "wave-plan/" + e.PlanID
	case *domain.WavePlanFailedEvent:
		return "wave-plan/" + e.PlanID
	default:
		return "wave-plan"
	}
}
