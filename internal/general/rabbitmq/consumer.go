package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// handlerTimeout bounds one delivery: a completion request that cannot finish
// inside this window is nacked rather than held forever.
const handlerTimeout = 30 * time.Second

// DeliveryHandler processes a single delivery. A non-nil error nacks the
// message without requeue; retrying a completion request that already failed
// deterministically (bad trip state, missing rates) would just loop.
type DeliveryHandler func(context.Context, amqp.Delivery) error

// newConsumerChannel returns a fresh channel with prefetch (QoS) applied.
func (client *Client) newConsumerChannel(prefetch int) (*amqp.Channel, error) {
	client.mu.RLock()
	conn := client.conn
	client.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return nil, errors.New("rabbitmq: connection is not ready")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	if prefetch < 0 {
		prefetch = 1
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("rabbitmq: set QoS (prefetch=%d): %w", prefetch, err)
		}
	}

	return ch, nil
}

// Consume pulls messages from a queue with manual acks until ctx is
// cancelled. The fare service runs one consumer per queue; prefetch caps how
// many unacked completion requests are in flight at once, which in turn caps
// concurrent fare computations driven from the queue.
func (client *Client) Consume(
	ctx context.Context,
	queue string,
	consumerTag string,
	prefetch int,
	handler DeliveryHandler,
) error {
	ch, err := client.newConsumerChannel(prefetch)
	if err != nil {
		return err
	}
	defer ch.Close()

	deliveries, err := ch.Consume(
		queue,
		consumerTag,
		false, // autoAck
		false, // exclusive
		false, // noLocal (ignored by RabbitMQ)
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume(%s): %w", queue, err)
	}

	client.logger.Info(client.logCtx, "rabbitmq_consumer_started", "Consumer attached to queue",
		map[string]any{"queue": queue, "consumer_tag": consumerTag, "prefetch": prefetch})

	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			if consumerTag != "" {
				_ = ch.Cancel(consumerTag, false)
			}
			client.logger.Info(client.logCtx, "rabbitmq_consumer_stopped", "Consumer stopped on shutdown",
				map[string]any{"queue": queue, "consumer_tag": consumerTag})
			return nil

		case cerr := <-chClosed:
			if cerr != nil {
				return fmt.Errorf("rabbitmq: channel closed while consuming %s: %w", queue, cerr)
			}
			return nil

		case d, ok := <-deliveries:
			if !ok {
				// deliveries stream ended
				return nil
			}

			hCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
			err := handler(hCtx, d)
			cancel()

			if err != nil {
				client.logger.Error(client.logCtx, "rabbitmq_delivery_rejected", "Delivery handler failed; message dropped", err,
					map[string]any{"queue": queue, "routing_key": d.RoutingKey})
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
