package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"fare-engine/internal/domain/trip"
	"fare-engine/internal/general/contracts"
	"fare-engine/internal/ports"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405") // e.g., 20251028T184523
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// publishTripCompleted sends a completion event to the trip_topic exchange
// using routing key "trip.completed.{booking_type}" (topic).
func (service *completionService) publishTripCompleted(ctx context.Context, driverID string, bt trip.BookingType, out ports.CompleteTripResult, corrID string) error {
	msg := contracts.TripCompletedMessage{
		TripID:            out.TripID,
		DriverID:          driverID,
		BookingType:       bt.String(),
		TotalFare:         out.Breakdown.TotalFare,
		BillingDistanceKM: out.Breakdown.BillingDistanceKM,
		PricingMethod:     out.Breakdown.PricingMethod,
		CompletedAt:       out.CompletedAt,
		Envelope: contracts.Envelope{
			Producer:      "fare-service",
			CorrelationID: corrID,
			SentAt:        time.Now().UTC(),
		},
	}

	routingKey := contracts.RouteTripCompletedPrefix + msg.BookingType

	if err := service.pub.PublishJSON(contracts.ExchangeTripTopic, routingKey, msg); err != nil {
		return err
	}

	service.logger.Info(ctx, "trip_completed_published", "Published trip completion to RabbitMQ", map[string]any{
		"routing_key": routingKey,
		"trip_id":     msg.TripID,
		"driver_id":   msg.DriverID,
		"total_fare":  msg.TotalFare,
	})

	return nil
}

// pushFareSummary sends the fare summary to the driver over WebSocket.
func (service *completionService) pushFareSummary(ctx context.Context, driverID string, out ports.CompleteTripResult, corrID string) {
	service.websocket.NotifyFareSummary(ctx, driverID, contracts.WSFareSummary{
		TripID:            out.TripID,
		TotalFare:         out.Breakdown.TotalFare,
		BillingDistanceKM: out.Breakdown.BillingDistanceKM,
		PricingMethod:     out.Breakdown.PricingMethod,
		Breakdown:         out.Breakdown,
		Envelope: contracts.Envelope{
			Producer:      "fare-service",
			CorrelationID: corrID,
			SentAt:        time.Now().UTC(),
		},
	})
}

// alertPersistenceFailure raises the two mandatory signals when a computed
// fare could not be stored: a message on the fare_alerts queue for operations
// and a blocking WebSocket alert naming the trip for the driver.
func (service *completionService) alertPersistenceFailure(ctx context.Context, tripID, driverID, corrID string, cause error) {
	const code = "FARE_PERSISTENCE_FAILED"

	alert := contracts.FareAlertMessage{
		TripID:    tripID,
		DriverID:  driverID,
		Code:      code,
		Reason:    cause.Error(),
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer:      "fare-service",
			CorrelationID: corrID,
			SentAt:        time.Now().UTC(),
		},
	}

	if err := service.pub.PublishJSON(contracts.ExchangeFareTopic, contracts.RouteFareAlertPrefix+driverID, alert); err != nil {
		service.logger.Error(ctx, "fare_alert_publish_failed", "Failed to publish fare alert to RabbitMQ", err, map[string]any{
			"trip_id":    tripID,
			"driver_id":  driverID,
			"request_id": corrID,
		})
	}

	_ = service.websocket.NotifyFareAlert(ctx, driverID, contracts.WSFareAlert{
		TripID:   tripID,
		Code:     code,
		Message:  "Fare for trip " + tripID + " could not be saved. Contact support before starting a new trip.",
		Blocking: true,
		Envelope: contracts.Envelope{
			Producer:      "fare-service",
			CorrelationID: corrID,
			SentAt:        time.Now().UTC(),
		},
	})
}
