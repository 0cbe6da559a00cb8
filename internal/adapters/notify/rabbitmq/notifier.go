package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"laikavet/internal/ports/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher es el subconjunto de *amqp.Channel que usa el notifier.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Notifier publica en una cola durable vía el exchange por defecto.
type Notifier struct {
	conn    *amqp.Connection
	channel publisher
	queue   string
	now     func() time.Time
}

func Dial(url, queue string) (*Notifier, error) {
	if queue == "" {
		return nil, errors.New("rabbitmq: queue name required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare %s: %w", queue, err)
	}
	return &Notifier{conn: conn, channel: ch, queue: queue, now: time.Now}, nil
}

func (n *Notifier) AppointmentScheduled(ctx context.Context, e notify.AppointmentEvent) error {
	return n.publish(ctx, e)
}

func (n *Notifier) AppointmentReminder(ctx context.Context, e notify.AppointmentEvent) error {
	return n.publish(ctx, e)
}

func (n *Notifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

func (n *Notifier) publish(ctx context.Context, e notify.AppointmentEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Kind, err)
	}
	err = n.channel.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.AppointmentID,
		Type:         e.Kind,
		Timestamp:    n.now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", e.Kind, err)
	}
	return nil
}
