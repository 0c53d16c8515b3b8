package service

import (
	"context"
	"errors"

	"fare-engine/internal/ports"
)

// ErrFareNotFound is returned when no fare breakdown has been recorded for the trip.
var ErrFareNotFound = errors.New("no fare recorded for trip")

// GetFare returns the persisted fare breakdown for a completed trip.
func (service *completionService) GetFare(ctx context.Context, tripID string) (ports.GetFareResult, error) {
	var out ports.GetFareResult

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		t, err := service.trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrTripNotFound
		}

		breakdown, err := service.fares.GetByTripID(ctx, tripID)
		if err != nil {
			return err
		}
		if breakdown == nil {
			return ErrFareNotFound
		}

		out.TripID = tripID
		out.Breakdown = *breakdown
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "get_fare_failed", "Failed to load fare breakdown", err, map[string]any{
			"trip_id": tripID,
		})
		return ports.GetFareResult{}, err
	}

	return out, nil
}
