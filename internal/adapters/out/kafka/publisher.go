// Package kafka relays committed trace events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"

	skafka "github.com/segmentio/kafka-go"
)

const (
	HeaderEventType = "event-type"
	HeaderEventHash = "event-hash"
)

var _ ports.TraceEventPublisher = (*TracePublisher)(nil)

// Writer is the part of kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// TracePublisher writes one message per event, keyed by the event's resource id so that
// every event of a package, tag or listing lands on the same partition in order.
type TracePublisher struct {
	writer Writer
}

// NewTracePublisher connects to the given brokers. Writes wait for all in-sync replicas.
func NewTracePublisher(brokers []string, topic string, writeTimeout time.Duration) *TracePublisher {
	return &TracePublisher{writer: &skafka.Writer{
		Addr:         skafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &skafka.Hash{},
		RequiredAcks: skafka.RequireAll,
		WriteTimeout: writeTimeout,
	}}
}

// NewTracePublisherWithWriter wraps an existing writer.
func NewTracePublisherWithWriter(w Writer) *TracePublisher {
	return &TracePublisher{writer: w}
}

// Publish writes one message per event, keyed by resource id so a resource keeps its order
// within a partition. The batch either succeeds as a whole or is retried by the relay.
func (p *TracePublisher) Publish(ctx context.Context, events []*trace.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]skafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := message(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: write %d trace events: %w", len(msgs), err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *TracePublisher) Close() error {
	return p.writer.Close()
}

func message(e *trace.Event) (skafka.Message, error) {
	value, err := json.Marshal(trace.NewRecord(e))
	if err != nil {
		return skafka.Message{}, fmt.Errorf("kafka: encode trace event %s: %w", e.ID(), err)
	}
	return skafka.Message{
		Key:   []byte(e.ResourceID().String()),
		Value: value,
		Time:  e.OccurredAt(),
		Headers: []skafka.Header{
			{Key: HeaderEventType, Value: []byte(e.Type())},
			{Key: HeaderEventHash, Value: []byte(e.Hash())},
		},
	}, nil
}
