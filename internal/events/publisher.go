package events

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/strava-import/internal/domain"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

type schemaRegistrar interface {
	SchemaID(ctx context.Context, subject string, schema string) (int, error)
}

// Publisher delivers domain events to Kafka with Confluent wire framing.
// Publishing is synchronous: the import pipeline treats a failed publish as a
// failed import, so there is no retry or buffering layer here.
type Publisher struct {
	producer      messageWriter
	registry      schemaRegistrar
	topic         string
	schemaSubject string
}

// NewPublisher constructs a Publisher bound to a single topic.
func NewPublisher(producer messageWriter, registry schemaRegistrar, topic string) *Publisher {
	return &Publisher{
		producer:      producer,
		registry:      registry,
		topic:         topic,
		schemaSubject: topic + "-value",
	}
}

// PublishSegmentEffortsInvalidated emits a SegmentEffortsInvalidated event for
// the given activity. Implements domain.EventSink.
func (p *Publisher) PublishSegmentEffortsInvalidated(ctx context.Context, id domain.ActivityID) error {
	event := SegmentEffortsInvalidated{
		ActivityID: id,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", EventTypeSegmentEffortsInvalidated, err)
	}

	schemaID, err := p.registry.SchemaID(ctx, p.schemaSubject, segmentEffortsInvalidatedSchema)
	if err != nil {
		return fmt.Errorf("resolving schema for %s: %w", p.schemaSubject, err)
	}

	msg := kafka.Message{
		Key:   []byte(id.String()),
		Value: encodeWireFormat(schemaID, payload),
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeSegmentEffortsInvalidated)},
			{Key: "schema_subject", Value: []byte(p.schemaSubject)},
		},
	}

	if err := p.producer.WriteMessages(ctx, p.topic, msg); err != nil {
		publishFailedCounter.Inc()
		return fmt.Errorf("publishing %s: %w", EventTypeSegmentEffortsInvalidated, err)
	}

	publishedCounter.Inc()
	return nil
}

// encodeWireFormat applies Confluent framing for Schema Registry aware payloads.
func encodeWireFormat(schemaID int, payload []byte) []byte {
	frame := make([]byte, 5+len(payload))
	frame[0] = 0
	binary.BigEndian.PutUint32(frame[1:5], uint32(schemaID))
	copy(frame[5:], payload)
	return frame
}
