package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ticketbook/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const dialTimeout = 2 * time.Second

type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
}

// NewPublisher returns a RabbitMQ publisher, or a no-op one when no broker
// URL is configured.
func NewPublisher(config utils.BrokerConfig, log *zap.Logger) Publisher {
	if config.URL == "" {
		log.Info("Broker not configured, booking events disabled")
		return NopPublisher{}
	}
	return &amqpPublisher{
		url:   config.URL,
		queue: config.Queue,
		log:   log.With(zap.String("publisher", "amqp")),
	}
}

type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmedEvent) error {
	return nil
}

type amqpPublisher struct {
	url   string
	queue string
	log   *zap.Logger
}

// PublishBookingConfirmed opens a short-lived connection, declares the durable
// queue and publishes a persistent JSON message to it.
func (p *amqpPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.BookingID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish booking %s: %w", event.BookingID, err)
	}

	p.log.Debug("Booking event published",
		zap.String("booking_id", event.BookingID),
		zap.String("queue", p.queue),
	)
	return nil
}
