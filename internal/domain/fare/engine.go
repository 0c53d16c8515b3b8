package fare

import (
	"errors"

	"fare-engine/internal/domain/geo"
	"fare-engine/internal/domain/trip"
)

// Distance source names recorded on every quote, so which source supplied
// the billed distance is always inspectable instead of inferred from logs.
const (
	SourceGPSHistory        = "gps_history"
	SourceStationaryMinimum = "stationary_minimum"
)

// SourceAttempt is one entry in the ordered distance-source chain.
type SourceAttempt struct {
	Source     string  `json:"source"`
	OK         bool    `json:"ok"`
	DistanceKM float64 `json:"distance_km,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Engine runs the five-stage fare pipeline for one trip completion:
// GPS distance reduction, billing-distance normalization, rate resolution,
// deadhead zone evaluation, and aggregation. Pure computation over
// already-fetched data; the engine performs no I/O and holds no per-trip
// state, so a fixed input always produces the same quote.
type Engine struct {
	Zones    geo.ZoneRings
	Deadhead DeadheadConfig
	Fees     FeeConfig
}

// NewEngine validates the zone and policy configuration and returns an Engine.
func NewEngine(zones geo.ZoneRings, deadhead DeadheadConfig, fees FeeConfig) (*Engine, error) {
	if err := zones.Validate(); err != nil {
		return nil, err
	}
	if !deadhead.Policy.Valid() {
		return nil, ErrInvalidDeadheadPolicy
	}
	return &Engine{Zones: zones, Deadhead: deadhead, Fees: fees}, nil
}

// QuoteInput is the fully-materialized data the completion flow hands to the
// engine. Fetch failures are the caller's problem; the engine only sees what
// arrived.
type QuoteInput struct {
	BookingType trip.BookingType
	Direction   *trip.Direction
	RateTable   *RateTable

	Fixes       []geo.Fix
	Pickup      geo.Point
	Destination geo.Point // booking destination, drop-off fallback when no fixes exist

	DurationHours float64 // actual trip duration, for rental overage
}

// Quote is the engine result: the immutable breakdown plus the advisory
// signals the caller is expected to log.
type Quote struct {
	Breakdown          Breakdown
	DropoffZone        geo.Zone
	Flags              []geo.TrackingFlag
	Stationary         bool
	DirectionDefaulted bool
	DistanceSources    []SourceAttempt
}

// Compute runs the pipeline once. It returns ErrInsufficientGPSData when
// tracking failed for a non-stationary trip and ErrRateConfigMissing when
// neither slab nor per-km pricing exists; every other input yields a quote.
func (engine *Engine) Compute(in QuoteInput) (Quote, error) {
	var quote Quote

	// 1. reduce the fix sequence to a tracked distance
	tracked, err := geo.ReduceDistance(in.Fixes, in.Pickup, in.Destination)
	if err != nil {
		if errors.Is(err, geo.ErrInsufficientFixes) {
			quote.DistanceSources = append(quote.DistanceSources, SourceAttempt{
				Source: SourceGPSHistory,
				Error:  err.Error(),
			})
			return quote, ErrInsufficientGPSData
		}
		return quote, err
	}

	if tracked.Stationary {
		quote.DistanceSources = append(quote.DistanceSources,
			SourceAttempt{Source: SourceGPSHistory, Error: "trip endpoints effectively identical"},
			SourceAttempt{Source: SourceStationaryMinimum, OK: true, DistanceKM: tracked.DistanceKM},
		)
	} else {
		quote.DistanceSources = append(quote.DistanceSources,
			SourceAttempt{Source: SourceGPSHistory, OK: true, DistanceKM: tracked.DistanceKM},
		)
	}
	quote.Flags = tracked.Flags
	quote.Stationary = tracked.Stationary

	// 2. normalize to billing distance
	billingKM, defaulted := BillingDistance(tracked.DistanceKM, in.BookingType, in.Direction)
	quote.DirectionDefaulted = defaulted

	// 3. resolve the rate
	duration := in.DurationHours
	if duration <= 0 && tracked.DurationMinutes > 0 {
		duration = float64(tracked.DurationMinutes) / 60
	}
	res, err := Resolve(in.RateTable, billingKM, duration)
	if err != nil {
		return quote, err
	}

	// 4. classify the drop-off and evaluate the deadhead surcharge;
	// the last recorded fix is ground truth, the booking destination is
	// only a fallback when no fixes exist
	dropoff := in.Destination
	if len(in.Fixes) > 0 {
		dropoff = in.Fixes[len(in.Fixes)-1].Point()
	}
	quote.DropoffZone = engine.Zones.Classify(dropoff)
	deadhead := engine.Deadhead.ChargeFor(quote.DropoffZone)

	// 5. aggregate
	allowance := 0.0
	if in.BookingType == trip.BookingOutstation && in.RateTable != nil {
		allowance = in.RateTable.DriverAllowance
	}
	quote.Breakdown = Aggregate(res, deadhead, allowance, engine.Fees)
	quote.Breakdown.TrackedDistanceKM = round2(tracked.DistanceKM)
	quote.Breakdown.BillingDistanceKM = round2(billingKM)
	quote.Breakdown.FixesUsed = tracked.FixesUsed
	quote.Breakdown.DropoffZone = quote.DropoffZone.String()

	return quote, nil
}
