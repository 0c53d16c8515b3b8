package fare

import (
	"errors"
	"fmt"
	"sort"

	"fare-engine/internal/domain/trip"
)

// RateSlab is a flat fare covering trips up to CoverageKM of billing
// distance. Slabs replace pure per-kilometer pricing for outstation and
// rental bookings.
type RateSlab struct {
	CoverageKM float64
	FlatFare   float64
}

// Label is a human-readable slab identifier used in breakdowns and audit rows.
func (slab RateSlab) Label() string {
	return fmt.Sprintf("upto_%gkm", slab.CoverageKM)
}

// RateTable is the pricing configuration for one (vehicle type, booking type)
// pair. Loaded read-only per calculation; the fare engine never mutates it.
type RateTable struct {
	VehicleType trip.VehicleType
	BookingType trip.BookingType

	// Slab pricing (outstation/rental). Ordered ascending by coverage.
	Slabs       []RateSlab
	ExtraKMRate float64 // per km beyond the largest slab

	// Per-km fallback, also the primary method for airport bookings.
	BaseFare  float64
	PerKMRate float64

	// Rental-only
	IncludedHours     float64
	HourlyOverageRate float64

	// Airport-only
	AirportSurcharge float64

	// Outstation-only
	DriverAllowance float64
}

var (
	ErrSlabCoverageNotPositive = errors.New("slab coverage must be positive")
	ErrSlabFareNegative        = errors.New("slab flat fare cannot be negative")
	ErrSlabsNotAscending       = errors.New("slabs must be strictly ascending by coverage")
)

// Validate checks the slab-ordering invariant and basic ranges.
func (table RateTable) Validate() error {
	for i, slab := range table.Slabs {
		if slab.CoverageKM <= 0 {
			return ErrSlabCoverageNotPositive
		}
		if slab.FlatFare < 0 {
			return ErrSlabFareNegative
		}
		if i > 0 && slab.CoverageKM <= table.Slabs[i-1].CoverageKM {
			return ErrSlabsNotAscending
		}
	}
	return nil
}

// Normalize sorts slabs ascending by coverage. Repositories call this after
// loading so the resolver can rely on the ordering invariant.
func (table *RateTable) Normalize() {
	sort.Slice(table.Slabs, func(i, j int) bool {
		return table.Slabs[i].CoverageKM < table.Slabs[j].CoverageKM
	})
}

// HasSlabs reports whether slab pricing is configured.
func (table RateTable) HasSlabs() bool {
	return len(table.Slabs) > 0
}

// HasPerKMFallback reports whether the per-km fallback is configured.
func (table RateTable) HasPerKMFallback() bool {
	return table.PerKMRate > 0
}
