package service

import (
	"context"
	"encoding/json"

	"fare-engine/internal/general/contracts"
	"fare-engine/internal/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartBackgroundConsumer starts consuming trip completion requests from RabbitMQ.
// Upstream trip services publish these when a driver ends a trip through a
// channel other than the fare-service HTTP API.
func (service *completionService) StartBackgroundConsumer(ctx context.Context) {
	go service.rabbitmq.Consume(ctx, contracts.QueueTripCompletionRequests, "fare-service-completion-requests", service.prefetch,
		func(ctx context.Context, d amqp.Delivery) error {
			service.logger.Info(ctx, "completion_request_received", "Processing trip completion request from MQ",
				map[string]any{"routing_key": d.RoutingKey})

			var request contracts.CompletionRequestMessage
			if err := json.Unmarshal(d.Body, &request); err != nil {
				service.logger.Error(ctx, "mq_message_parse_failed", "Failed to parse completion request", err, nil)
				return err
			}

			if request.CorrelationID != "" {
				ctx = service.logger.WithRequestID(ctx, request.CorrelationID)
			}

			// CompleteTrip owns its own transaction, logging, and alerting;
			// the returned error only drives the ack/nack decision
			_, err := service.CompleteTrip(ctx, ports.CompleteTripInput{
				DriverID: request.DriverID,
				TripID:   request.TripID,
			})
			return err
		})

	service.logger.Info(ctx, "mq_consumer_started", "Fare service MQ consumer started",
		map[string]any{"queue": contracts.QueueTripCompletionRequests, "prefetch": service.prefetch})
}
