package fare

import (
	"testing"

	"fare-engine/internal/domain/trip"

	"github.com/stretchr/testify/require"
)

func TestBillingDistance(t *testing.T) {
	oneWay := trip.DirectionOneWay
	roundTrip := trip.DirectionRoundTrip

	tests := []struct {
		name          string
		trackedKM     float64
		bookingType   trip.BookingType
		direction     *trip.Direction
		wantKM        float64
		wantDefaulted bool
	}{
		{"outstation one-way doubles", 45, trip.BookingOutstation, &oneWay, 90, false},
		{"outstation round-trip unchanged", 120, trip.BookingOutstation, &roundTrip, 120, false},
		{"outstation nil direction doubles via default", 45, trip.BookingOutstation, nil, 90, true},
		{"rental ignores direction", 30, trip.BookingRental, &oneWay, 30, false},
		{"airport ignores direction", 52.5, trip.BookingAirport, &oneWay, 52.5, false},
		{"zero tracked distance", 0, trip.BookingOutstation, nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotKM, gotDefaulted := BillingDistance(tt.trackedKM, tt.bookingType, tt.direction)
			require.Equal(t, tt.wantKM, gotKM)
			require.Equal(t, tt.wantDefaulted, gotDefaulted)
		})
	}
}
