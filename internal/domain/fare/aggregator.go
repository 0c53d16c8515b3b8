package fare

import "math"

// FeeConfig holds the platform fee and tax rates, passed explicitly per
// calculation instead of living in module globals.
type FeeConfig struct {
	PlatformFee     float64
	GSTChargesRate  float64 // GST applied to the charges subtotal
	GSTPlatformRate float64 // GST applied to the platform fee
}

// Aggregate composes a resolved rate, the deadhead surcharge, and the
// outstation driver allowance into the final Breakdown.
//
// Every monetary component is rounded to 2 decimal places before summation
// so floating-point drift never accumulates into the displayed total; the
// final total is rounded to the nearest whole currency unit.
func Aggregate(res Resolution, deadheadCharge, driverAllowance float64, fees FeeConfig) Breakdown {
	b := Breakdown{
		BaseFare:         round2(res.BaseFare),
		DistanceFare:     round2(res.DistanceFare),
		HourlyCharges:    round2(res.HourlyCharges),
		DriverAllowance:  round2(driverAllowance),
		ExtraKMCharges:   round2(res.ExtraKMCharges),
		AirportSurcharge: round2(res.AirportSurcharge),
		DeadheadCharge:   round2(deadheadCharge),
		PlatformFee:      round2(fees.PlatformFee),
		PricingMethod:    res.Method.String(),
		SlabLabel:        res.SlabLabel,
	}

	chargesSubtotal := b.BaseFare + b.DistanceFare + b.HourlyCharges +
		b.ExtraKMCharges + b.AirportSurcharge + b.DeadheadCharge + b.DriverAllowance

	b.GSTOnCharges = round2(chargesSubtotal * fees.GSTChargesRate)
	b.GSTOnPlatformFee = round2(b.PlatformFee * fees.GSTPlatformRate)

	// whole currency units for display
	b.TotalFare = math.Round(chargesSubtotal + b.PlatformFee + b.GSTOnCharges + b.GSTOnPlatformFee)

	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
