package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medical-appointment-api/config"
	"medical-appointment-api/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends appointment events keyed by appointment id, so every
// event of one appointment lands on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
	log    *logrus.Logger
}

// NewKafkaPublisher returns an async publisher: PublishAppointmentEvent only
// enqueues, and broker failures are reported through onDelivery.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logrus.Logger) *KafkaPublisher {
	publisher := &KafkaPublisher{log: log}
	publisher.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.AppointmentTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             publisher.onDelivery,
	}

	return publisher
}

func (p *KafkaPublisher) PublishAppointmentEvent(ctx context.Context, event service.AppointmentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AppointmentID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	return nil
}

func (p *KafkaPublisher) onDelivery(msgs []kafka.Message, err error) {
	if err != nil {
		p.log.Warnf("Failed to deliver %d appointment event(s): %+v", len(msgs), err)
		return
	}
	for _, msg := range msgs {
		p.log.Debugf("Published %s for appointment %s", eventType(msg), msg.Key)
	}
}

func eventType(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "event-type" {
			return string(h.Value)
		}
	}
	return ""
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
