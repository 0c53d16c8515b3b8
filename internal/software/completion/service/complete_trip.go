package service

import (
	"context"
	"errors"
	"time"

	"fare-engine/internal/domain/fare"
	"fare-engine/internal/domain/geo"
	"fare-engine/internal/domain/trip"
	"fare-engine/internal/ports"
)

// ErrTripNotFound is returned when the trip id does not exist.
var ErrTripNotFound = errors.New("trip not found")

// CompleteTrip runs the full completion flow: load the trip, reduce its GPS
// history to a billed distance, resolve and aggregate the fare, then persist
// the COMPLETED transition and the breakdown in one transaction.
func (service *completionService) CompleteTrip(ctx context.Context, in ports.CompleteTripInput) (ports.CompleteTripResult, error) {
	var out ports.CompleteTripResult
	corrID := generateCorrelationID()
	ctx = service.logger.WithTripID(ctx, in.TripID)

	// set once the engine has produced a quote; any transaction error after
	// that point is a persistence failure and must raise a blocking alert
	var (
		computed    bool
		quote       fare.Quote
		bookingType trip.BookingType
	)

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		// fetch the trip and validate ownership + state
		t, err := service.trips.GetByID(ctx, in.TripID)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrTripNotFound
		}
		if !t.OwnedBy(in.DriverID) {
			return trip.ErrNotOwnedByDriver
		}
		if t.Status != trip.StatusInProgress {
			// the status guard is the sole completion concurrency control;
			// fail fast instead of re-running the engine for a done trip
			return trip.ErrInvalidStatusTransition
		}
		bookingType = t.BookingType

		// load the raw GPS history and the pricing configuration
		fixes, err := service.fixes.ListForTrip(ctx, t.ID)
		if err != nil {
			return err
		}
		table, err := service.rates.GetForTrip(ctx, t.VehicleType, t.BookingType)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		quote, err = service.engine.Compute(fare.QuoteInput{
			BookingType: t.BookingType,
			Direction:   t.Direction,
			RateTable:   table,
			Fixes:       fixes,
			Pickup:      geo.Point{Latitude: t.PickupLatitude, Longitude: t.PickupLongitude},
			Destination: geo.Point{Latitude: t.DestinationLatitude, Longitude: t.DestinationLongitude},

			DurationHours: t.DurationHours(now),
		})
		if err != nil {
			return err
		}
		computed = true

		// apply the domain transition, then persist breakdown + trip together
		if err := t.Complete(quote.Breakdown.TotalFare, quote.Breakdown.BillingDistanceKM, quote.Breakdown.PricingMethod); err != nil {
			return err
		}
		if err := service.fares.Insert(ctx, t.ID, &quote.Breakdown); err != nil {
			return err
		}
		if err := service.trips.Complete(ctx, t.ID, quote.Breakdown.TotalFare, quote.Breakdown.BillingDistanceKM, quote.Breakdown.PricingMethod, *t.CompletedAt); err != nil {
			return err
		}

		out.TripID = t.ID
		out.Status = t.Status.String()
		out.CompletedAt = *t.CompletedAt
		out.Breakdown = quote.Breakdown
		out.DistanceSources = quote.DistanceSources
		out.Message = "Trip completed successfully"

		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "trip_complete_failed", "Failed to complete trip", err, map[string]any{
			"driver_id":  in.DriverID,
			"trip_id":    in.TripID,
			"computed":   computed,
			"request_id": corrID,
		})

		// a fare was computed but could not be stored: a driver finished a
		// trip and has no fare on record, which must never fail silently
		if computed {
			service.alertPersistenceFailure(ctx, in.TripID, in.DriverID, corrID, err)
		}
		return ports.CompleteTripResult{}, err
	}

	// advisory signals from the engine are log-only, never fare-affecting
	service.logger.Info(ctx, "trip_completed", "Trip completed and fare persisted", map[string]any{
		"driver_id":           in.DriverID,
		"trip_id":             in.TripID,
		"total_fare":          out.Breakdown.TotalFare,
		"billing_distance_km": out.Breakdown.BillingDistanceKM,
		"pricing_method":      out.Breakdown.PricingMethod,
		"dropoff_zone":        out.Breakdown.DropoffZone,
		"tracking_flags":      quote.Flags,
		"stationary":          quote.Stationary,
		"direction_defaulted": quote.DirectionDefaulted,
		"distance_sources":    quote.DistanceSources,
		"request_id":          corrID,
	})

	// post-commit notifications are best effort; the fare is already durable
	if err := service.publishTripCompleted(ctx, in.DriverID, bookingType, out, corrID); err != nil {
		service.logger.Error(ctx, "trip_completed_publish_failed", "Failed to publish trip completion to RabbitMQ", err, map[string]any{
			"trip_id":    in.TripID,
			"request_id": corrID,
		})
	}
	service.pushFareSummary(ctx, in.DriverID, out, corrID)

	return out, nil
}
