package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"laikavet/internal/ports/notify"

	kafkago "github.com/segmentio/kafka-go"
)

const DefaultTopic = "appointment_topic"

// messageWriter es el subconjunto de *kafkago.Writer que usa el notifier.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Notifier publica eventos de turnos en un topic. La key es el id del turno
// para que los eventos de un mismo turno mantengan orden por partición.
type Notifier struct {
	writer messageWriter
}

func NewNotifier(brokers []string, topic string) *Notifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Notifier{writer: &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkago.RequireOne,
	}}
}

func (n *Notifier) AppointmentScheduled(ctx context.Context, e notify.AppointmentEvent) error {
	return n.publish(ctx, e)
}

func (n *Notifier) AppointmentReminder(ctx context.Context, e notify.AppointmentEvent) error {
	return n.publish(ctx, e)
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

func (n *Notifier) publish(ctx context.Context, e notify.AppointmentEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Kind, err)
	}
	msg := kafkago.Message{
		Key:   []byte(e.AppointmentID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(e.Kind)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", e.Kind, err)
	}
	return nil
}
