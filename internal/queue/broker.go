package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotConnected is returned by publish attempts when the broker channel
// was never established (e.g. the broker was down at boot).
var ErrNotConnected = errors.New("queue: channel is not initialized")

// Broker holds the single AMQP connection and channel used by the process.
// Both are established once at startup; there is no reconnect loop, so a
// dead broker at boot disables exports until the service restarts. Publish
// attempts in that state fail with ErrNotConnected.
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials the broker, opens a channel and declares the durable export
// queue. On any failure it returns the error and a nil Broker; callers log
// it and continue with exports disabled.
func Connect(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		ExportQueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Broker{conn: conn, ch: ch}, nil
}

// PublishExportRequest serializes {email} and publishes it persistently to
// the export queue. The call is fire-and-forget from the HTTP caller's
// point of view: it returns as soon as the broker accepts the message.
func (b *Broker) PublishExportRequest(ctx context.Context, email string) error {
	if b == nil || b.ch == nil {
		return ErrNotConnected
	}
	body, err := json.Marshal(ExportRequest{Email: email})
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := b.ch.PublishWithContext(ctx,
		"",              // default exchange
		ExportQueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// Close shuts the channel down, then the connection, in that order.
func (b *Broker) Close() {
	if b == nil {
		return
	}
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}
