package fare

import (
	"testing"
	"time"

	"fare-engine/internal/domain/geo"
	"fare-engine/internal/domain/trip"

	"github.com/stretchr/testify/require"
)

// degPerKM converts kilometers to degrees of latitude (R = 6371 km).
const degPerKM = 1.0 / 111.19492664455873

const (
	centerLat = 12.9716
	centerLon = 77.5946
)

func testEngine(t *testing.T, policy DeadheadPolicy) *Engine {
	t.Helper()
	engine, err := NewEngine(
		geo.ZoneRings{
			Inner: geo.Ring{CenterLat: centerLat, CenterLon: centerLon, RadiusKM: 7.74},
			Outer: geo.Ring{CenterLat: centerLat, CenterLon: centerLon, RadiusKM: 25},
		},
		DeadheadConfig{Policy: policy, Charge: 150},
		stdFees,
	)
	require.NoError(t, err)
	return engine
}

// track builds n fixes moving north from the city center, one per gapSec.
func track(n int, stepKM, gapSec float64) []geo.Fix {
	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	fixes := make([]geo.Fix, 0, n)
	for i := 0; i < n; i++ {
		fixes = append(fixes, geo.Fix{
			TripID:     "trip-1",
			Latitude:   centerLat + float64(i)*stepKM*degPerKM,
			Longitude:  centerLon,
			RecordedAt: t0.Add(time.Duration(float64(i) * gapSec * float64(time.Second))),
		})
	}
	return fixes
}

func TestComputeOutstationWithDirectionDefault(t *testing.T) {
	engine := testEngine(t, PolicyRingBandOnly)

	fixes := track(21, 0.15, 10) // ~3 km tracked
	in := QuoteInput{
		BookingType: trip.BookingOutstation,
		Direction:   nil, // booking carried no direction
		RateTable:   outstationTable(),
		Fixes:       fixes,
		Pickup:      geo.Point{Latitude: centerLat, Longitude: centerLon},
		Destination: fixes[len(fixes)-1].Point(),
	}

	quote, err := engine.Compute(in)
	require.NoError(t, err)

	require.True(t, quote.DirectionDefaulted)
	require.False(t, quote.Stationary)
	require.InDelta(t, 3.0, quote.Breakdown.TrackedDistanceKM, 0.02)
	require.InDelta(t, 6.0, quote.Breakdown.BillingDistanceKM, 0.04) // one-way doubled
	require.Equal(t, "slab", quote.Breakdown.PricingMethod)
	require.Equal(t, "upto_50km", quote.Breakdown.SlabLabel)
	require.Equal(t, 300.0, quote.Breakdown.DriverAllowance)

	// drop-off 3 km from the center: inner core, no deadhead under band-only
	require.Equal(t, geo.ZoneInnerCore, quote.DropoffZone)
	require.Zero(t, quote.Breakdown.DeadheadCharge)

	require.Len(t, quote.DistanceSources, 1)
	require.Equal(t, SourceGPSHistory, quote.DistanceSources[0].Source)
	require.True(t, quote.DistanceSources[0].OK)
}

func TestComputeStationaryTrip(t *testing.T) {
	engine := testEngine(t, PolicyRingBandOnly)

	in := QuoteInput{
		BookingType: trip.BookingOutstation,
		RateTable:   outstationTable(),
		Pickup:      geo.Point{Latitude: centerLat, Longitude: centerLon},
		Destination: geo.Point{Latitude: centerLat, Longitude: centerLon},
	}

	quote, err := engine.Compute(in)
	require.NoError(t, err)

	require.True(t, quote.Stationary)
	require.Equal(t, 0.1, quote.Breakdown.TrackedDistanceKM)
	require.Equal(t, 0.2, quote.Breakdown.BillingDistanceKM) // nominal minimum, doubled

	// the source chain records both the failed GPS attempt and the fallback
	require.Len(t, quote.DistanceSources, 2)
	require.Equal(t, SourceGPSHistory, quote.DistanceSources[0].Source)
	require.False(t, quote.DistanceSources[0].OK)
	require.Equal(t, SourceStationaryMinimum, quote.DistanceSources[1].Source)
	require.True(t, quote.DistanceSources[1].OK)
}

func TestComputeInsufficientGPSData(t *testing.T) {
	engine := testEngine(t, PolicyRingBandOnly)

	in := QuoteInput{
		BookingType: trip.BookingOutstation,
		RateTable:   outstationTable(),
		Fixes:       track(1, 0, 0),
		Pickup:      geo.Point{Latitude: centerLat, Longitude: centerLon},
		Destination: geo.Point{Latitude: centerLat + 10*degPerKM, Longitude: centerLon},
	}

	quote, err := engine.Compute(in)
	require.ErrorIs(t, err, ErrInsufficientGPSData)
	require.Len(t, quote.DistanceSources, 1)
	require.False(t, quote.DistanceSources[0].OK)
	require.NotEmpty(t, quote.DistanceSources[0].Error)
}

func TestComputeRateConfigMissing(t *testing.T) {
	engine := testEngine(t, PolicyRingBandOnly)

	in := QuoteInput{
		BookingType: trip.BookingOutstation,
		RateTable:   nil, // no pricing configured for the pair
		Fixes:       track(5, 0.15, 10),
		Pickup:      geo.Point{Latitude: centerLat, Longitude: centerLon},
		Destination: geo.Point{Latitude: centerLat + 0.6*degPerKM, Longitude: centerLon},
	}

	_, err := engine.Compute(in)
	require.ErrorIs(t, err, ErrRateConfigMissing)
}

func TestComputeDeadheadUsesLastFixNotDestination(t *testing.T) {
	// booking says the trip ends downtown, but the recorded track ends 15 km
	// out: the last fix is ground truth for zone classification
	for _, tc := range []struct {
		policy     DeadheadPolicy
		wantCharge float64
	}{
		{PolicyRingBandOnly, 150},
		{PolicyAnyRing, 150},
		{PolicyInnerRingOnly, 0},
	} {
		t.Run(string(tc.policy), func(t *testing.T) {
			engine := testEngine(t, tc.policy)

			fixes := track(101, 0.15, 10) // ends ~15 km north: outer band
			in := QuoteInput{
				BookingType: trip.BookingRental,
				RateTable: &RateTable{
					BookingType: trip.BookingRental,
					Slabs:       []RateSlab{{CoverageKM: 80, FlatFare: 2000}},
					ExtraKMRate: 15,
				},
				Fixes:       fixes,
				Pickup:      geo.Point{Latitude: centerLat, Longitude: centerLon},
				Destination: geo.Point{Latitude: centerLat + 1*degPerKM, Longitude: centerLon},
			}

			quote, err := engine.Compute(in)
			require.NoError(t, err)
			require.Equal(t, geo.ZoneOuterBand, quote.DropoffZone)
			require.Equal(t, tc.wantCharge, quote.Breakdown.DeadheadCharge)

			// the track wildly overshoots the booked destination; that is
			// an advisory flag, never a fare blocker
			require.Contains(t, quote.Flags, geo.FlagErraticTracking)
		})
	}
}

func TestComputeAirportSurcharge(t *testing.T) {
	engine := testEngine(t, PolicyRingBandOnly)

	fixes := track(21, 0.15, 10)
	in := QuoteInput{
		BookingType: trip.BookingAirport,
		RateTable: &RateTable{
			BookingType:      trip.BookingAirport,
			BaseFare:         150,
			PerKMRate:        20,
			AirportSurcharge: 200,
		},
		Fixes:       fixes,
		Pickup:      geo.Point{Latitude: centerLat, Longitude: centerLon},
		Destination: fixes[len(fixes)-1].Point(),
	}

	quote, err := engine.Compute(in)
	require.NoError(t, err)
	require.Equal(t, "perKm", quote.Breakdown.PricingMethod)
	require.Equal(t, 200.0, quote.Breakdown.AirportSurcharge)
	// airport runs never get the outstation allowance
	require.Zero(t, quote.Breakdown.DriverAllowance)
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	_, err := NewEngine(
		geo.ZoneRings{Inner: geo.Ring{RadiusKM: 10}, Outer: geo.Ring{RadiusKM: 5}},
		DeadheadConfig{Policy: PolicyRingBandOnly},
		FeeConfig{},
	)
	require.ErrorIs(t, err, geo.ErrZoneRingsInverted)

	_, err = NewEngine(
		geo.ZoneRings{Inner: geo.Ring{RadiusKM: 5}, Outer: geo.Ring{RadiusKM: 25}},
		DeadheadConfig{Policy: "whenever"},
		FeeConfig{},
	)
	require.ErrorIs(t, err, ErrInvalidDeadheadPolicy)
}
