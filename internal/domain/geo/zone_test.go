package geo

import (
	"errors"
	"testing"
)

func TestZoneRingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		rings   ZoneRings
		wantErr error
	}{
		{
			name: "valid rings",
			rings: ZoneRings{
				Inner: Ring{CenterLat: 12.9716, CenterLon: 77.5946, RadiusKM: 7.74},
				Outer: Ring{CenterLat: 12.9716, CenterLon: 77.5946, RadiusKM: 25},
			},
		},
		{
			name: "zero inner radius",
			rings: ZoneRings{
				Inner: Ring{RadiusKM: 0},
				Outer: Ring{RadiusKM: 25},
			},
			wantErr: ErrZoneRadiusNotPositive,
		},
		{
			name: "inner not smaller than outer",
			rings: ZoneRings{
				Inner: Ring{RadiusKM: 25},
				Outer: Ring{RadiusKM: 25},
			},
			wantErr: ErrZoneRingsInverted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.rings.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClassifyPartitionsThePlane(t *testing.T) {
	rings := ZoneRings{
		Inner: Ring{CenterLat: 12.9716, CenterLon: 77.5946, RadiusKM: 7.74},
		Outer: Ring{CenterLat: 12.9716, CenterLon: 77.5946, RadiusKM: 25},
	}

	tests := []struct {
		name  string
		point Point
		want  Zone
	}{
		{"at the center", Point{Latitude: 12.9716, Longitude: 77.5946}, ZoneInnerCore},
		{"2 km out", Point{Latitude: 12.9716 + 2*degPerKM, Longitude: 77.5946}, ZoneInnerCore},
		{"between the rings", Point{Latitude: 12.9716 + 15*degPerKM, Longitude: 77.5946}, ZoneOuterBand},
		{"just inside the outer ring", Point{Latitude: 12.9716 + 24.9*degPerKM, Longitude: 77.5946}, ZoneOuterBand},
		{"beyond the outer ring", Point{Latitude: 12.9716 + 40*degPerKM, Longitude: 77.5946}, ZoneBeyond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rings.Classify(tt.point); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

// The rings may be centered on different points; each membership check uses
// its own ring's center.
func TestClassifyWithOffsetCenters(t *testing.T) {
	rings := ZoneRings{
		Inner: Ring{CenterLat: 12.9716, CenterLon: 77.5946, RadiusKM: 5},
		// outer ring shifted ~11 km north of the inner center
		Outer: Ring{CenterLat: 12.9716 + 11*degPerKM, CenterLon: 77.5946, RadiusKM: 20},
	}

	// near the inner center: inside both rings, inner wins
	if got := rings.Classify(Point{Latitude: 12.9716 + 1*degPerKM, Longitude: 77.5946}); got != ZoneInnerCore {
		t.Errorf("near inner center: got %v, want %v", got, ZoneInnerCore)
	}

	// 8 km north of the inner center: outside the inner ring, ~3 km from the
	// outer center, so in the band
	if got := rings.Classify(Point{Latitude: 12.9716 + 8*degPerKM, Longitude: 77.5946}); got != ZoneOuterBand {
		t.Errorf("between centers: got %v, want %v", got, ZoneOuterBand)
	}

	// far south: outside both rings
	if got := rings.Classify(Point{Latitude: 12.9716 - 30*degPerKM, Longitude: 77.5946}); got != ZoneBeyond {
		t.Errorf("far south: got %v, want %v", got, ZoneBeyond)
	}
}
