package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fare-engine/internal/domain/trip"
	"fare-engine/internal/ports"

	"github.com/jackc/pgx/v5"
)

// TripRepo persists trips using pgx and plain SQL.
type TripRepo struct{}

// NewTripRepo constructs a new TripRepo.
func NewTripRepo() ports.TripRepository {
	return &TripRepo{}
}

// GetByID fetches a trip by primary key (uuid).
func (repo *TripRepo) GetByID(ctx context.Context, id string) (*trip.Trip, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	query := `
        SELECT id, trip_number, passenger_id, driver_id, vehicle_type, booking_type,
               direction, status, pickup_lat, pickup_lon, destination_lat, destination_lon,
               started_at, completed_at, cancelled_at,
               total_fare, billing_distance_km, pricing_method,
               created_at, updated_at
        FROM trips
        WHERE id = $1`

	var t trip.Trip
	var direction *string
	err = tx.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TripNumber, &t.PassengerID, &t.DriverID, &t.VehicleType, &t.BookingType,
		&direction, &t.Status, &t.PickupLatitude, &t.PickupLongitude, &t.DestinationLatitude, &t.DestinationLongitude,
		&t.StartedAt, &t.CompletedAt, &t.CancelledAt,
		&t.TotalFare, &t.BillingDistanceKM, &t.PricingMethod,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query trip by id: %w", err)
	}

	// direction is nullable: upstream apps may omit it for outstation trips
	if direction != nil {
		d, err := trip.ParseDirection(*direction)
		if err != nil {
			return nil, fmt.Errorf("trip %s: %w", id, err)
		}
		t.Direction = &d
	}

	return &t, nil
}

// Complete transitions a trip IN_PROGRESS -> COMPLETED and writes the billed
// outcome in the same statement. The status predicate is the concurrency
// control: a second completion attempt matches zero rows.
func (repo *TripRepo) Complete(ctx context.Context, tripID string, totalFare, billingDistanceKM float64, pricingMethod string, completedAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = $2,
		    completed_at = $3,
		    total_fare = $4,
		    billing_distance_km = $5,
		    pricing_method = $6,
		    updated_at = now()
		WHERE id = $1 AND status = $7
	`,
		tripID,
		trip.StatusCompleted.String(),
		completedAt,
		totalFare,
		billingDistanceKM,
		pricingMethod,
		trip.StatusInProgress.String(),
	)
	if err != nil {
		return fmt.Errorf("complete trip: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return trip.ErrInvalidStatusTransition
	}

	return nil
}

// CountCompletedBetween counts trips completed in [start, end). Used by the
// revenue report.
func (repo *TripRepo) CountCompletedBetween(ctx context.Context, start, end time.Time) (int, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM trips
		WHERE status = $1 AND completed_at >= $2 AND completed_at < $3
	`, trip.StatusCompleted.String(), start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed trips: %w", err)
	}

	return n, nil
}
