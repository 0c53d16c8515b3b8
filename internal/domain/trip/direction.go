package trip

import (
	"errors"
	"strings"
)

// Direction is the travel direction of a trip as stored in the `trip_direction` column.
type Direction string

const (
	DirectionOneWay    Direction = "ONE_WAY"
	DirectionRoundTrip Direction = "ROUND_TRIP"
)

// DirectionDefaultForOutstation is the direction assumed for outstation trips
// when the booking record carries no direction at all. One-way is the
// conservative, higher-priced assumption: the driver returns empty, so the
// customer is charged for the round-trip equivalent. This is business policy,
// not a data repair.
const DirectionDefaultForOutstation = DirectionOneWay

var ErrInvalidDirection = errors.New("invalid trip direction")

// ParseDirection normalizes (uppercases+trims) and validates a direction string.
func ParseDirection(in string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(in)))
	if d.Valid() {
		return d, nil
	}
	return "", ErrInvalidDirection
}

// Valid reports whether direction is one of the allowed direction constants.
func (direction Direction) Valid() bool {
	switch direction {
	case DirectionOneWay, DirectionRoundTrip:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Direction.
func (direction Direction) String() string {
	return string(direction)
}

// ResolveDirection returns the effective direction for a booking. For
// outstation bookings with a nil direction it applies
// DirectionDefaultForOutstation and reports defaulted=true so the caller can
// log that the policy fired.
func ResolveDirection(direction *Direction, bookingType BookingType) (effective Direction, defaulted bool) {
	if direction != nil && direction.Valid() {
		return *direction, false
	}
	if bookingType == BookingOutstation {
		return DirectionDefaultForOutstation, true
	}
	// rental and airport fares never depend on direction
	return DirectionRoundTrip, false
}
