package fare

// Breakdown is the aggregate fare result attached to a trip's completion
// record. Created once at completion, serialized to the store exactly once,
// and never mutated afterwards — a later correction requires a new record,
// not an update.
type Breakdown struct {
	BaseFare         float64 `json:"base_fare"`
	DistanceFare     float64 `json:"distance_fare"`
	HourlyCharges    float64 `json:"hourly_charges,omitempty"`
	DriverAllowance  float64 `json:"driver_allowance,omitempty"`
	ExtraKMCharges   float64 `json:"extra_km_charges"`
	AirportSurcharge float64 `json:"airport_surcharge,omitempty"`
	DeadheadCharge   float64 `json:"deadhead_charge"`
	PlatformFee      float64 `json:"platform_fee"`
	GSTOnCharges     float64 `json:"gst_on_charges"`
	GSTOnPlatformFee float64 `json:"gst_on_platform_fee"`
	TotalFare        float64 `json:"total_fare"`

	// Audit fields
	TrackedDistanceKM float64 `json:"tracked_distance_km"`
	BillingDistanceKM float64 `json:"billing_distance_km"`
	FixesUsed         int     `json:"fixes_used"`
	PricingMethod     string  `json:"pricing_method"` // "slab" | "perKm"
	SlabLabel         string  `json:"slab_label,omitempty"`
	DropoffZone       string  `json:"dropoff_zone"`
}
