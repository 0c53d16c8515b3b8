package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// confirmTimeout bounds how long a publish waits for the broker ack. Fare
// events are published after the transaction commits, so a slow broker must
// never hold the completion response hostage.
const confirmTimeout = 5 * time.Second

// MQPublisher publishes fare-service events (trip completions, fare alerts)
// through the shared Client with publisher confirms.
type MQPublisher struct {
	Client *Client
}

// NewMQPublisher constructs an MQPublisher using the provided RabbitMQ client.
func NewMQPublisher(client *Client) *MQPublisher {
	return &MQPublisher{Client: client}
}

// PublishJSON marshals the message and publishes it persistently. All
// fare-service contracts go through here so the content type and delivery
// mode stay uniform across event types.
func (publisher *MQPublisher) PublishJSON(exchange, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message for %s: %w", routingKey, err)
	}
	return publisher.Publish(exchange, routingKey, body)
}

// Publish sends a pre-encoded body to the given exchange and routing key.
func (publisher *MQPublisher) Publish(exchange, routingKey string, body []byte) error {
	return publisher.Client.PublishMessage(exchange, routingKey, body)
}

// PublishMessage publishes one persistent JSON message and waits for the
// broker confirm.
func (client *Client) PublishMessage(exchange, routingKey string, body []byte) error {
	client.mu.RLock()
	ch := client.pubChan
	conn := client.conn
	client.mu.RUnlock()

	// quick fail when disconnected; the caller decides whether the event
	// loss matters (completion events are best effort, alerts are logged)
	if conn == nil || conn.IsClosed() {
		return errors.New("rabbitmq: connection is not open")
	}
	if ch == nil || ch.IsClosed() {
		return errors.New("rabbitmq: publish channel is not open")
	}

	// confirms arrive in publish order, so the publish and its confirm wait
	// stay under one lock
	client.pubMu.Lock()
	defer client.pubMu.Unlock()
	confirms := client.pubConfirms

	ctx, cancel := context.WithTimeout(context.Background(), confirmTimeout)
	defer cancel()

	err := ch.PublishWithContext(ctx, exchange, routingKey, true /* mandatory */, false, /* immediate */
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		client.logger.Error(client.logCtx, "rabbitmq_publish_failed", "Failed to publish message", err,
			map[string]any{"exchange": exchange, "routing_key": routingKey})
		return err
	}

	return client.awaitConfirm(ctx, confirms, exchange, routingKey)
}

// awaitConfirm blocks until the broker acks or nacks the publish, or the
// timeout fires. On timeout it still tries to drain exactly one confirm so
// the stream stays aligned with publishes.
func (client *Client) awaitConfirm(ctx context.Context, confirms chan amqp.Confirmation, exchange, routingKey string) error {
	select {
	case c := <-confirms:
		if !c.Ack {
			client.logger.Error(client.logCtx, "rabbitmq_publish_nacked", "Broker rejected published message", nil,
				map[string]any{"exchange": exchange, "routing_key": routingKey})
			return fmt.Errorf("rabbitmq: publish not acknowledged")
		}
		return nil

	case <-ctx.Done():
		select {
		case c := <-confirms:
			if !c.Ack {
				return fmt.Errorf("rabbitmq: publish not acknowledged after timeout")
			}
		case <-time.After(2 * time.Second):
			// give up; the confirm stream realigns on reconnect
		}

		client.logger.Error(client.logCtx, "rabbitmq_confirm_timeout", "Timed out waiting for publish confirm", ctx.Err(),
			map[string]any{"exchange": exchange, "routing_key": routingKey})
		return ctx.Err()
	}
}
