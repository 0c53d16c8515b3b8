package fare

import "fare-engine/internal/domain/trip"

// BillingDistance converts the tracked (one-way) GPS distance into the
// distance actually charged. One-way outstation trips bill double: the GPS
// captured a single leg but the driver must return empty. Round trips already
// contain both legs, and rental/airport bookings bill the tracked distance
// as-is regardless of direction.
//
// defaulted reports that the outstation one-way default fired because the
// booking carried no direction (see trip.DirectionDefaultForOutstation).
func BillingDistance(trackedKM float64, bookingType trip.BookingType, direction *trip.Direction) (billingKM float64, defaulted bool) {
	if bookingType != trip.BookingOutstation {
		return trackedKM, false
	}

	effective, defaulted := trip.ResolveDirection(direction, bookingType)
	if effective == trip.DirectionOneWay {
		return trackedKM * 2, defaulted
	}
	return trackedKM, defaulted
}
