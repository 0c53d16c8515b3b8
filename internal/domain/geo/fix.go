package geo

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Point is a plain latitude/longitude pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Fix is one GPS sample for a trip, corresponding to the `trip_fixes` table.
// Fixes are immutable once recorded and ordered by RecordedAt.
type Fix struct {
	ID         string
	TripID     string
	Latitude   float64
	Longitude  float64
	SpeedKMH   *float64
	RecordedAt time.Time
}

var (
	ErrMissingTripID      = errors.New("trip ID is missing")
	ErrInvalidLatitude    = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude   = errors.New("longitude must be between -180 and 180")
	ErrInvalidCoordinates = errors.New("coordinates cannot be zero")
	ErrNegativeSpeed      = errors.New("speed_kmh cannot be negative")
	ErrRecordedAtZeroTime = errors.New("recorded_at must be a valid timestamp")
)

// NewFix constructs a validated Fix. Speed is optional.
func NewFix(tripID string, latitude, longitude float64, speedKMH *float64, recordedAt time.Time) (*Fix, error) {
	fix := &Fix{
		TripID:     strings.TrimSpace(tripID),
		Latitude:   latitude,
		Longitude:  longitude,
		SpeedKMH:   speedKMH,
		RecordedAt: recordedAt,
	}
	if err := fix.Validate(); err != nil {
		return nil, err
	}
	return fix, nil
}

// Validate checks invariants of the Fix entity.
func (fix Fix) Validate() error {
	if fix.TripID == "" {
		return ErrMissingTripID
	}
	if fix.Latitude == 0 && fix.Longitude == 0 {
		return ErrInvalidCoordinates
	}
	if fix.Latitude < -90 || fix.Latitude > 90 || math.IsNaN(fix.Latitude) {
		return ErrInvalidLatitude
	}
	if fix.Longitude < -180 || fix.Longitude > 180 || math.IsNaN(fix.Longitude) {
		return ErrInvalidLongitude
	}
	if fix.SpeedKMH != nil {
		if *fix.SpeedKMH < 0 || math.IsNaN(*fix.SpeedKMH) {
			return ErrNegativeSpeed
		}
	}
	if fix.RecordedAt.IsZero() {
		return ErrRecordedAtZeroTime
	}
	return nil
}

// Point returns the fix position as a Point.
func (fix Fix) Point() Point {
	return Point{Latitude: fix.Latitude, Longitude: fix.Longitude}
}

// HaversineKM returns the great-circle distance in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0 // Earth radius in km
	a1 := lat1 * math.Pi / 180
	a2 := lat2 * math.Pi / 180
	da := (lat2 - lat1) * math.Pi / 180
	db := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(da/2)*math.Sin(da/2) +
		math.Cos(a1)*math.Cos(a2)*math.Sin(db/2)*math.Sin(db/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// DistanceKM returns the great-circle distance between two points.
func DistanceKM(from, to Point) float64 {
	return HaversineKM(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}
