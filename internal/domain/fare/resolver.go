package fare

import (
	"fare-engine/internal/domain/trip"
)

// PricingMethod records which pricing path produced the fare, persisted for
// audit alongside the billing distance.
type PricingMethod string

const (
	MethodSlab  PricingMethod = "slab"
	MethodPerKM PricingMethod = "perKm"
)

// String returns the string representation of the PricingMethod.
func (method PricingMethod) String() string {
	return string(method)
}

// Resolution is the outcome of a rate lookup, before surcharges and taxes.
type Resolution struct {
	BaseFare         float64 // per-km path only; zero for slab hits
	DistanceFare     float64 // slab flat fare or billing-distance * per-km rate
	ExtraKMCharges   float64 // beyond-largest-slab overage
	HourlyCharges    float64 // rental overage hours
	AirportSurcharge float64 // flat airport add-on
	Method           PricingMethod
	SlabLabel        string // set when a slab was selected
}

// Resolve looks up the applicable rate for the billing distance.
//
// Outstation/rental: the first slab whose coverage >= billingKM wins
// (inclusive boundary). Beyond the largest slab the largest flat fare applies
// plus ExtraKMRate on the excess. A missing slab table falls back to
// base + per-km pricing — an incomplete rate configuration must never fail a
// trip completion on its own. Airport bookings are always per-km plus a flat
// surcharge. Only when neither slabs nor a per-km rate exist does the lookup
// fail with ErrRateConfigMissing.
func Resolve(table *RateTable, billingKM, durationHours float64) (Resolution, error) {
	if table == nil {
		return Resolution{}, ErrRateConfigMissing
	}
	if billingKM < 0 {
		billingKM = 0
	}

	var res Resolution

	switch table.BookingType {
	case trip.BookingAirport:
		// no slab system for airport runs
		if !table.HasPerKMFallback() {
			return Resolution{}, ErrRateConfigMissing
		}
		res = perKM(table, billingKM)
		res.AirportSurcharge = table.AirportSurcharge

	case trip.BookingRental:
		res = resolveSlabbed(table, billingKM)
		res.HourlyCharges = hourlyOverage(table, durationHours)

	default: // outstation
		res = resolveSlabbed(table, billingKM)
	}

	if res.Method == "" {
		return Resolution{}, ErrRateConfigMissing
	}
	return res, nil
}

// resolveSlabbed applies slab selection with the per-km fallback for
// configuration gaps. An empty Method signals that neither path is configured.
func resolveSlabbed(table *RateTable, billingKM float64) Resolution {
	if !table.HasSlabs() {
		if !table.HasPerKMFallback() {
			return Resolution{}
		}
		return perKM(table, billingKM)
	}

	for _, slab := range table.Slabs {
		if slab.CoverageKM >= billingKM {
			return Resolution{
				DistanceFare: slab.FlatFare,
				Method:       MethodSlab,
				SlabLabel:    slab.Label(),
			}
		}
	}

	// beyond the largest slab: largest flat fare plus per-km overage
	largest := table.Slabs[len(table.Slabs)-1]
	return Resolution{
		DistanceFare:   largest.FlatFare,
		ExtraKMCharges: (billingKM - largest.CoverageKM) * table.ExtraKMRate,
		Method:         MethodSlab,
		SlabLabel:      largest.Label(),
	}
}

func perKM(table *RateTable, billingKM float64) Resolution {
	return Resolution{
		BaseFare:     table.BaseFare,
		DistanceFare: billingKM * table.PerKMRate,
		Method:       MethodPerKM,
	}
}

func hourlyOverage(table *RateTable, durationHours float64) float64 {
	overage := durationHours - table.IncludedHours
	if overage <= 0 {
		return 0
	}
	return overage * table.HourlyOverageRate
}
