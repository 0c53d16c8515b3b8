package trip

import (
	"errors"
	"strings"
)

// BookingType is a trip category as stored in the `booking_type` column.
type BookingType string

const (
	BookingOutstation BookingType = "OUTSTATION"
	BookingRental     BookingType = "RENTAL"
	BookingAirport    BookingType = "AIRPORT"
)

var ErrInvalidBookingType = errors.New("invalid booking type")

// ParseBookingType normalizes (uppercases+trims) and validates a booking type string.
func ParseBookingType(in string) (BookingType, error) {
	bt := BookingType(strings.ToUpper(strings.TrimSpace(in)))
	if bt.Valid() {
		return bt, nil
	}
	return "", ErrInvalidBookingType
}

// Valid reports whether bookingType is one of the allowed booking type constants.
func (bookingType BookingType) Valid() bool {
	switch bookingType {
	case BookingOutstation, BookingRental, BookingAirport:
		return true
	default:
		return false
	}
}

// String returns the string representation of the BookingType.
func (bookingType BookingType) String() string {
	return string(bookingType)
}
