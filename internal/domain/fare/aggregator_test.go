package fare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var stdFees = FeeConfig{
	PlatformFee:     10,
	GSTChargesRate:  0.05,
	GSTPlatformRate: 0.18,
}

func TestAggregateComposesBreakdown(t *testing.T) {
	res := Resolution{
		DistanceFare:   2500,
		ExtraKMCharges: 180,
		Method:         MethodSlab,
		SlabLabel:      "upto_120km",
	}

	b := Aggregate(res, 150, 300, stdFees)

	require.Equal(t, 2500.0, b.DistanceFare)
	require.Equal(t, 180.0, b.ExtraKMCharges)
	require.Equal(t, 150.0, b.DeadheadCharge)
	require.Equal(t, 300.0, b.DriverAllowance)
	require.Equal(t, 10.0, b.PlatformFee)
	require.Equal(t, "slab", b.PricingMethod)
	require.Equal(t, "upto_120km", b.SlabLabel)

	// GST on charges covers the full charges subtotal including deadhead
	// and allowance; platform fee is taxed separately at its own rate
	subtotal := 2500.0 + 180 + 150 + 300
	require.Equal(t, round2(subtotal*0.05), b.GSTOnCharges)
	require.Equal(t, round2(10*0.18), b.GSTOnPlatformFee)

	require.Equal(t, math.Round(subtotal+10+b.GSTOnCharges+b.GSTOnPlatformFee), b.TotalFare)
}

func TestAggregateRoundsComponentsToPaise(t *testing.T) {
	res := Resolution{
		BaseFare:     100.004,
		DistanceFare: 333.333,
		Method:       MethodPerKM,
	}

	b := Aggregate(res, 0, 0, stdFees)

	require.Equal(t, 100.0, b.BaseFare)
	require.Equal(t, 333.33, b.DistanceFare)
	// the total is a whole currency unit
	require.Equal(t, b.TotalFare, math.Trunc(b.TotalFare))
}

func TestAggregateZeroFees(t *testing.T) {
	res := Resolution{DistanceFare: 1500, Method: MethodSlab, SlabLabel: "upto_50km"}

	b := Aggregate(res, 0, 0, FeeConfig{})

	require.Zero(t, b.PlatformFee)
	require.Zero(t, b.GSTOnCharges)
	require.Zero(t, b.GSTOnPlatformFee)
	require.Equal(t, 1500.0, b.TotalFare)
}

func TestAggregateNeverNegative(t *testing.T) {
	b := Aggregate(Resolution{Method: MethodSlab}, 0, 0, FeeConfig{})
	require.GreaterOrEqual(t, b.TotalFare, 0.0)
}
