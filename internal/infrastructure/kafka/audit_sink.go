// Package kafka publishes audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	skafka "github.com/segmentio/kafka-go"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// Writer defines the subset of segmentio kafka.Writer we need. This makes the sink testable.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// AuditSink writes one message per audit event, keyed by subject so events
// about the same account land on the same partition in order.
type AuditSink struct {
	writer Writer
}

// NewAuditSink creates a sink that writes to topic on the given brokers.
func NewAuditSink(brokers []string, topic string) *AuditSink {
	w := &skafka.Writer{
		Addr:         skafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &skafka.Hash{},
		RequiredAcks: skafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &AuditSink{writer: w}
}

// NewAuditSinkWithWriter allows injecting a test writer.
func NewAuditSinkWithWriter(w Writer) *AuditSink {
	return &AuditSink{writer: w}
}

func (s *AuditSink) Write(ctx context.Context, e domain.AuditEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	msg := skafka.Message{
		Key:   []byte(e.Subject),
		Value: b,
		Time:  e.Timestamp,
		Headers: []skafka.Header{
			{Key: "action", Value: []byte(e.Action)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (s *AuditSink) Close() error {
	return s.writer.Close()
}
