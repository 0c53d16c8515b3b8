package geo

import "errors"

// Ring is a circular geofence: a center plus a radius in kilometers.
type Ring struct {
	CenterLat float64
	CenterLon float64
	RadiusKM  float64
}

// Contains reports whether the point lies within the ring (inclusive).
func (ring Ring) Contains(p Point) bool {
	return HaversineKM(ring.CenterLat, ring.CenterLon, p.Latitude, p.Longitude) <= ring.RadiusKM
}

// ZoneRings are the two concentric deployment rings used for deadhead
// classification. Invariant: the inner radius is strictly smaller than the
// outer radius.
type ZoneRings struct {
	Inner Ring
	Outer Ring
}

var (
	ErrZoneRadiusNotPositive = errors.New("zone ring radius must be positive")
	ErrZoneRingsInverted     = errors.New("inner ring radius must be smaller than outer ring radius")
)

// Validate checks the ring invariants.
func (rings ZoneRings) Validate() error {
	if rings.Inner.RadiusKM <= 0 || rings.Outer.RadiusKM <= 0 {
		return ErrZoneRadiusNotPositive
	}
	if rings.Inner.RadiusKM >= rings.Outer.RadiusKM {
		return ErrZoneRingsInverted
	}
	return nil
}

// Zone is the result of classifying a drop-off point against the rings.
// Every point classifies into exactly one zone.
type Zone string

const (
	// ZoneInnerCore: city core, a return fare is easy to find.
	ZoneInnerCore Zone = "INNER_CORE"
	// ZoneOuterBand: suburban band between the rings, a return fare is unlikely.
	ZoneOuterBand Zone = "OUTER_BAND"
	// ZoneBeyond: outside the outer ring, treated as a long-haul special case.
	ZoneBeyond Zone = "BEYOND"
)

// String returns the string representation of the Zone.
func (zone Zone) String() string {
	return string(zone)
}

// Classify places a point into exactly one of the three zones. A pure
// function of coordinates: membership is computed per trip and never stored.
func (rings ZoneRings) Classify(p Point) Zone {
	if rings.Inner.Contains(p) {
		return ZoneInnerCore
	}
	if rings.Outer.Contains(p) {
		return ZoneOuterBand
	}
	return ZoneBeyond
}
