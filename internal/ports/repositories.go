package ports

import (
	"context"
	"time"

	"fare-engine/internal/domain/fare"
	"fare-engine/internal/domain/geo"
	"fare-engine/internal/domain/trip"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TripRepository defines the methods for managing trip data.
type TripRepository interface {
	GetByID(ctx context.Context, id string) (*trip.Trip, error)
	// Complete persists the IN_PROGRESS -> COMPLETED transition together with
	// the billed outcome. Implementations must guard the transition in the
	// store (status predicate on the update) so a trip is completed at most once.
	Complete(ctx context.Context, tripID string, totalFare, billingDistanceKM float64, pricingMethod string, completedAt time.Time) error
	CountCompletedBetween(ctx context.Context, start, end time.Time) (int, error)
}

// TripFixRepository defines the methods for reading a trip's GPS history.
type TripFixRepository interface {
	// ListForTrip returns all fixes for the trip ordered by recorded_at.
	ListForTrip(ctx context.Context, tripID string) ([]geo.Fix, error)
}

// RateTableRepository defines the methods for loading pricing configuration.
type RateTableRepository interface {
	// GetForTrip returns the rate table for the vehicle/booking pair, or
	// (nil, nil) when no configuration exists — a configuration gap, not an error.
	GetForTrip(ctx context.Context, vt trip.VehicleType, bt trip.BookingType) (*fare.RateTable, error)
}

// FareRepository defines the methods for persisting and auditing fare breakdowns.
type FareRepository interface {
	Insert(ctx context.Context, tripID string, breakdown *fare.Breakdown) error
	GetByTripID(ctx context.Context, tripID string) (*fare.Breakdown, error)
	SumTotalBetween(ctx context.Context, start, end time.Time) (float64, error)
}
