package ports

import (
	"context"
	"time"

	"fare-engine/internal/domain/fare"
)

// ----- DTOs for the Completion Service -----

// CompleteTripInput is the validated input for POST /trips/{trip_id}/complete.
type CompleteTripInput struct {
	DriverID string // from path/token
	TripID   string // from body
}

// CompleteTripResult matches the API response for completing a trip.
type CompleteTripResult struct {
	TripID          string               `json:"trip_id"`
	Status          string               `json:"status"` // typically "COMPLETED"
	CompletedAt     time.Time            `json:"completed_at"`
	Breakdown       fare.Breakdown       `json:"fare_breakdown"`
	DistanceSources []fare.SourceAttempt `json:"distance_sources"`
	Message         string               `json:"message"`
}

// GetFareResult is the persisted breakdown returned for audit reads.
type GetFareResult struct {
	TripID    string         `json:"trip_id"`
	Breakdown fare.Breakdown `json:"fare_breakdown"`
}

// RevenueReportResult summarizes completed trips and collected fares over a
// time window, for the admin audit read.
type RevenueReportResult struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	TripsCompleted int       `json:"trips_completed"`
	TotalRevenue   float64   `json:"total_revenue"`
}

// ----- Completion Service Interface -----

// CompletionService exposes the boundary for the trip-completion flow.
type CompletionService interface {
	CompleteTrip(ctx context.Context, in CompleteTripInput) (CompleteTripResult, error)
	GetFare(ctx context.Context, tripID string) (GetFareResult, error)
	GetRevenueReport(ctx context.Context, from, to time.Time) (RevenueReportResult, error)
	StartBackgroundConsumer(ctx context.Context)
}
