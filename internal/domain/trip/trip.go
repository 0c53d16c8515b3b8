package trip

import (
	"errors"
	"strings"
	"time"
)

// Trip is the domain entity corresponding to the `trips` table.
type Trip struct {
	// Identity & audit
	ID         string
	TripNumber string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Actors
	PassengerID string
	DriverID    string

	// Core state
	VehicleType VehicleType
	BookingType BookingType
	Direction   *Direction // nil when the booking carried no direction
	Status      Status

	// Booking endpoints (planned pickup/destination, not GPS truth)
	PickupLatitude       float64
	PickupLongitude      float64
	DestinationLatitude  float64
	DestinationLongitude float64

	// Lifecycle timestamps
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	// Completion outcome (set exactly once by Complete)
	TotalFare         *float64
	BillingDistanceKM *float64
	PricingMethod     *string
}

var (
	ErrDriverRequired          = errors.New("driver id is required")
	ErrTripNumberRequired      = errors.New("trip number is required")
	ErrInvalidStatusTransition = errors.New("invalid trip status transition")
	ErrNotOwnedByDriver        = errors.New("trip is not assigned to the driver")
	ErrNegativeFare            = errors.New("total fare cannot be negative")
)

// NewTrip creates a trip in ASSIGNED state.
func NewTrip(tripNumber, passengerID, driverID string, vt VehicleType, bt BookingType, direction *Direction,
	pickupLat, pickupLon, destLat, destLon float64,
) (*Trip, error) {
	if tripNumber = strings.TrimSpace(tripNumber); tripNumber == "" {
		return nil, ErrTripNumberRequired
	}
	if driverID = strings.TrimSpace(driverID); driverID == "" {
		return nil, ErrDriverRequired
	}
	if !vt.Valid() {
		return nil, ErrInvalidVehicleType
	}
	if !bt.Valid() {
		return nil, ErrInvalidBookingType
	}
	if direction != nil && !direction.Valid() {
		return nil, ErrInvalidDirection
	}

	now := time.Now().UTC()
	return &Trip{
		TripNumber:           tripNumber,
		CreatedAt:            now,
		UpdatedAt:            now,
		PassengerID:          strings.TrimSpace(passengerID),
		DriverID:             driverID,
		VehicleType:          vt,
		BookingType:          bt,
		Direction:            direction,
		Status:               StatusAssigned,
		PickupLatitude:       pickupLat,
		PickupLongitude:      pickupLon,
		DestinationLatitude:  destLat,
		DestinationLongitude: destLon,
	}, nil
}

// Start transitions ASSIGNED -> IN_PROGRESS.
func (trip *Trip) Start() error {
	if trip.Status != StatusAssigned {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	trip.StartedAt = &now
	trip.setStatus(StatusInProgress)
	return nil
}

// Complete transitions IN_PROGRESS -> COMPLETED and records the billed
// outcome. The status guard is the sole concurrency control for completion:
// a second attempt on an already-completed trip fails here instead of
// re-running the fare engine.
func (trip *Trip) Complete(totalFare, billingDistanceKM float64, pricingMethod string) error {
	if trip.Status != StatusInProgress {
		return ErrInvalidStatusTransition
	}
	if totalFare < 0 {
		return ErrNegativeFare
	}
	now := time.Now().UTC()
	trip.CompletedAt = &now
	trip.TotalFare = &totalFare
	trip.BillingDistanceKM = &billingDistanceKM
	trip.PricingMethod = &pricingMethod
	trip.setStatus(StatusCompleted)
	return nil
}

// Cancel transitions to CANCELLED (if not terminal).
func (trip *Trip) Cancel() error {
	if trip.Status.Terminal() {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	trip.CancelledAt = &now
	trip.setStatus(StatusCancelled)
	return nil
}

// OwnedBy reports whether the trip is assigned to the given driver.
func (trip *Trip) OwnedBy(driverID string) bool {
	return trip.DriverID != "" && trip.DriverID == driverID
}

// DurationHours returns the elapsed trip time in hours, used for rental
// hourly-overage charges. Zero when the trip never started.
func (trip *Trip) DurationHours(asOf time.Time) float64 {
	if trip.StartedAt == nil || asOf.Before(*trip.StartedAt) {
		return 0
	}
	return asOf.Sub(*trip.StartedAt).Hours()
}

// ----- internal helpers -----

func (trip *Trip) setStatus(status Status) {
	trip.Status = status
	trip.touch()
}

func (trip *Trip) touch() {
	trip.UpdatedAt = time.Now().UTC()
}
