package fare

import (
	"testing"

	"fare-engine/internal/domain/trip"

	"github.com/stretchr/testify/require"
)

func outstationTable() *RateTable {
	return &RateTable{
		VehicleType: trip.VehicleSedan,
		BookingType: trip.BookingOutstation,
		Slabs: []RateSlab{
			{CoverageKM: 50, FlatFare: 1500},
			{CoverageKM: 100, FlatFare: 2500},
			{CoverageKM: 120, FlatFare: 2900},
		},
		ExtraKMRate:     18,
		DriverAllowance: 300,
	}
}

func TestResolveSlabSelection(t *testing.T) {
	table := outstationTable()

	t.Run("first covering slab wins", func(t *testing.T) {
		res, err := Resolve(table, 90, 0)
		require.NoError(t, err)
		require.Equal(t, MethodSlab, res.Method)
		require.Equal(t, "upto_100km", res.SlabLabel)
		require.Equal(t, 2500.0, res.DistanceFare)
		require.Zero(t, res.ExtraKMCharges)
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		res, err := Resolve(table, 100, 0)
		require.NoError(t, err)
		require.Equal(t, "upto_100km", res.SlabLabel)
		require.Equal(t, 2500.0, res.DistanceFare)
		require.Zero(t, res.ExtraKMCharges)
	})

	t.Run("beyond the largest slab charges overage", func(t *testing.T) {
		// 65 km one-way -> 130 km billed: 10 km past the 120 km slab
		res, err := Resolve(table, 130, 0)
		require.NoError(t, err)
		require.Equal(t, "upto_120km", res.SlabLabel)
		require.Equal(t, 2900.0, res.DistanceFare)
		require.Equal(t, 180.0, res.ExtraKMCharges)
	})

	t.Run("smallest slab covers short trips", func(t *testing.T) {
		res, err := Resolve(table, 3, 0)
		require.NoError(t, err)
		require.Equal(t, "upto_50km", res.SlabLabel)
		require.Equal(t, 1500.0, res.DistanceFare)
	})
}

func TestResolvePerKMFallback(t *testing.T) {
	table := &RateTable{
		VehicleType: trip.VehicleHatchback,
		BookingType: trip.BookingOutstation,
		BaseFare:    100,
		PerKMRate:   12,
	}

	res, err := Resolve(table, 80, 0)
	require.NoError(t, err)
	require.Equal(t, MethodPerKM, res.Method)
	require.Equal(t, 100.0, res.BaseFare)
	require.Equal(t, 960.0, res.DistanceFare)
	require.Empty(t, res.SlabLabel)
}

func TestResolveRateConfigMissing(t *testing.T) {
	t.Run("nil table", func(t *testing.T) {
		_, err := Resolve(nil, 10, 0)
		require.ErrorIs(t, err, ErrRateConfigMissing)
	})

	t.Run("no slabs and no per-km rate", func(t *testing.T) {
		_, err := Resolve(&RateTable{BookingType: trip.BookingOutstation}, 10, 0)
		require.ErrorIs(t, err, ErrRateConfigMissing)
	})

	t.Run("airport without per-km rate", func(t *testing.T) {
		table := outstationTable()
		table.BookingType = trip.BookingAirport
		_, err := Resolve(table, 10, 0)
		require.ErrorIs(t, err, ErrRateConfigMissing)
	})
}

func TestResolveRentalHourlyOverage(t *testing.T) {
	table := &RateTable{
		VehicleType:       trip.VehicleSedan,
		BookingType:       trip.BookingRental,
		Slabs:             []RateSlab{{CoverageKM: 80, FlatFare: 2000}},
		ExtraKMRate:       15,
		IncludedHours:     8,
		HourlyOverageRate: 120,
	}

	t.Run("within included hours", func(t *testing.T) {
		res, err := Resolve(table, 60, 7.5)
		require.NoError(t, err)
		require.Zero(t, res.HourlyCharges)
	})

	t.Run("overage billed fractionally", func(t *testing.T) {
		res, err := Resolve(table, 60, 10.5)
		require.NoError(t, err)
		require.Equal(t, 300.0, res.HourlyCharges) // 2.5h * 120
	})
}

func TestResolveAirportAlwaysPerKM(t *testing.T) {
	table := &RateTable{
		VehicleType: trip.VehicleSUV,
		BookingType: trip.BookingAirport,
		// slabs present but must be ignored for airport runs
		Slabs:            []RateSlab{{CoverageKM: 50, FlatFare: 1500}},
		BaseFare:         150,
		PerKMRate:        20,
		AirportSurcharge: 200,
	}

	res, err := Resolve(table, 35, 0)
	require.NoError(t, err)
	require.Equal(t, MethodPerKM, res.Method)
	require.Equal(t, 150.0, res.BaseFare)
	require.Equal(t, 700.0, res.DistanceFare)
	require.Equal(t, 200.0, res.AirportSurcharge)
	require.Empty(t, res.SlabLabel)
}

func TestResolveClampsNegativeDistance(t *testing.T) {
	table := &RateTable{
		BookingType: trip.BookingOutstation,
		BaseFare:    100,
		PerKMRate:   12,
	}
	res, err := Resolve(table, -5, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, res.DistanceFare)
}

func TestRateTableValidateOrdering(t *testing.T) {
	table := outstationTable()
	require.NoError(t, table.Validate())

	table.Slabs = []RateSlab{{CoverageKM: 100, FlatFare: 2500}, {CoverageKM: 50, FlatFare: 1500}}
	require.ErrorIs(t, table.Validate(), ErrSlabsNotAscending)

	table.Normalize()
	require.NoError(t, table.Validate())
}
