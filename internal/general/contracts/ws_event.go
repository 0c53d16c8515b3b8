package contracts

// WSFareSummary mirrors "fare_summary" pushed to the driver after a trip
// completes. Breakdown is the persisted JSON fare breakdown.
type WSFareSummary struct {
	Type              string  `json:"type"` // "fare_summary"
	TripID            string  `json:"trip_id"`
	TripNumber        string  `json:"trip_number,omitempty"`
	TotalFare         float64 `json:"total_fare"`
	BillingDistanceKM float64 `json:"billing_distance_km"`
	PricingMethod     string  `json:"pricing_method"`
	Breakdown         any     `json:"fare_breakdown"`
	Envelope
}

// WSFareAlert mirrors "fare_alert" pushed to the driver when the fare could
// not be computed or persisted. Blocking alerts must be surfaced in the app
// before the driver can start a new trip.
type WSFareAlert struct {
	Type     string `json:"type"` // "fare_alert"
	TripID   string `json:"trip_id"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
	Envelope
}
