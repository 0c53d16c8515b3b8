package contracts

import "time"

// CompletionRequestMessage asks the fare service to complete a trip on behalf
// of a driver. Published by upstream trip services when the driver taps "end
// trip" while offline from the HTTP surface.
// Routing key: "trip.complete.request.{trip_id}" on ExchangeTripTopic.
type CompletionRequestMessage struct {
	TripID    string    `json:"trip_id"`
	DriverID  string    `json:"driver_id"`
	Timestamp time.Time `json:"timestamp"`
	Envelope
}

// TripCompletedMessage is published after a trip is completed and its fare
// persisted.
// Routing key: "trip.completed.{booking_type}" on ExchangeTripTopic.
type TripCompletedMessage struct {
	TripID            string    `json:"trip_id"`
	DriverID          string    `json:"driver_id"`
	BookingType       string    `json:"booking_type"` // OUTSTATION|RENTAL|AIRPORT
	TotalFare         float64   `json:"total_fare"`
	BillingDistanceKM float64   `json:"billing_distance_km"`
	PricingMethod     string    `json:"pricing_method"` // slab|perKm
	CompletedAt       time.Time `json:"completed_at"`
	Envelope
}

// FareAlertMessage is published when fare computation or persistence fails in
// a way operations must see. Never dropped silently.
// Routing key: "fare.alert.{driver_id}" on ExchangeFareTopic.
type FareAlertMessage struct {
	TripID    string    `json:"trip_id"`
	DriverID  string    `json:"driver_id"`
	Code      string    `json:"code"`   // e.g. FARE_PERSISTENCE_FAILED
	Reason    string    `json:"reason"` // human-readable failure description
	Timestamp time.Time `json:"timestamp"`
	Envelope
}
