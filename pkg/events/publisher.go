// Package events publishes workflow events for downstream consumers such as
// the notification service. Delivery is best effort and never part of the
// database transaction that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/noah-isme/thesis-workflow-api/pkg/config"
)

// Event types emitted by the engine.
const (
	TypeStatusTransitioned = "status.transitioned"
	TypeAssignmentChanged  = "assignment.changed"
	TypeDefenseScheduled   = "defense.scheduled"
	TypeVivaScheduled      = "viva.scheduled"
	TypeVerdictRecorded    = "verdict.recorded"
)

// Event is the envelope written to the workflow topic.
type Event struct {
	Type         string            `json:"type"`
	EntityType   string            `json:"entityType"`
	EntityID     string            `json:"entityId"`
	RecordID     string            `json:"recordId"`
	SupersededID *string           `json:"supersededId,omitempty"`
	NotifyRoles  []string          `json:"notifyRoles,omitempty"`
	Actor        string            `json:"actor"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	OccurredAt   time.Time         `json:"occurredAt"`
}

// Publisher emits workflow events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by entity id so a
// single entity's events stay ordered within a partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaPublisher builds a publisher for the configured brokers.
func NewKafkaPublisher(cfg config.EventsConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.WriteTimeout)
}

func newKafkaPublisher(writer messageWriter, timeout time.Duration) *KafkaPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaPublisher{writer: writer, timeout: timeout}
}

// Publish serialises and writes the event.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	msg := kafka.Message{
		Key:   []byte(event.EntityID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("write event %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

// New returns a Kafka publisher when brokers are configured, otherwise a no-op.
func New(cfg config.EventsConfig) Publisher {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return NopPublisher{}
	}
	return NewKafkaPublisher(cfg)
}
