package geo

import (
	"errors"
	"math"
	"testing"
	"time"
)

// degPerKM converts kilometers to degrees of latitude (R = 6371 km).
const degPerKM = 1.0 / 111.19492664455873

func fixAt(t0 time.Time, offsetSec float64, lat, lon float64) Fix {
	return Fix{
		TripID:     "trip-1",
		Latitude:   lat,
		Longitude:  lon,
		RecordedAt: t0.Add(time.Duration(offsetSec * float64(time.Second))),
	}
}

// trackAlongLatitude builds n fixes moving north from startLat in stepKM
// increments, one fix per gapSec seconds.
func trackAlongLatitude(t0 time.Time, startLat, lon float64, n int, stepKM, gapSec float64) []Fix {
	fixes := make([]Fix, 0, n)
	for i := 0; i < n; i++ {
		fixes = append(fixes, fixAt(t0, float64(i)*gapSec, startLat+float64(i)*stepKM*degPerKM, lon))
	}
	return fixes
}

func TestReduceDistanceSumsPlausibleSegments(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// 21 fixes, 0.15 km apart every 10s: 20 segments of 3.0 km total
	fixes := trackAlongLatitude(t0, 12.90, 77.60, 21, 0.15, 10)
	pickup := Point{Latitude: 12.90, Longitude: 77.60}
	destination := Point{Latitude: fixes[len(fixes)-1].Latitude, Longitude: 77.60}

	got, err := ReduceDistance(fixes, pickup, destination)
	if err != nil {
		t.Fatalf("ReduceDistance() error = %v", err)
	}
	if math.Abs(got.DistanceKM-3.0) > 0.01 {
		t.Errorf("DistanceKM = %v, want ~3.0", got.DistanceKM)
	}
	if got.FixesUsed != 21 {
		t.Errorf("FixesUsed = %d, want 21", got.FixesUsed)
	}
	if got.Stationary {
		t.Error("Stationary = true for a moving trip")
	}
	if len(got.Flags) != 0 {
		t.Errorf("Flags = %v, want none", got.Flags)
	}
	// 200s of samples -> ceil to 4 minutes
	if got.DurationMinutes != 4 {
		t.Errorf("DurationMinutes = %d, want 4", got.DurationMinutes)
	}
}

func TestReduceDistanceFiltersImplausibleJump(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	fixes := trackAlongLatitude(t0, 12.90, 77.60, 5, 0.15, 10)
	// splice in a 5 km teleport 10s after the last good fix, then continue
	jumpLat := fixes[len(fixes)-1].Latitude + 5.0*degPerKM
	fixes = append(fixes, fixAt(t0, 50, jumpLat, 77.60))
	fixes = append(fixes, fixAt(t0, 60, jumpLat+0.15*degPerKM, 77.60))

	pickup := Point{Latitude: 12.90, Longitude: 77.60}
	destination := Point{Latitude: jumpLat + 0.15*degPerKM, Longitude: 77.60}

	got, err := ReduceDistance(fixes, pickup, destination)
	if err != nil {
		t.Fatalf("ReduceDistance() error = %v", err)
	}

	// 4 normal segments before the jump + 1 after; the 5 km segment dropped
	want := 5 * 0.15
	if math.Abs(got.DistanceKM-want) > 0.01 {
		t.Errorf("DistanceKM = %v, want ~%v (jump excluded)", got.DistanceKM, want)
	}
}

func TestIncludeSegmentTiers(t *testing.T) {
	tests := []struct {
		name   string
		segKM  float64
		gapSec float64
		want   bool
	}{
		{"short segment always included", 0.15, 1, true},
		{"short segment with zero gap", 0.1, 0, true},
		{"highway pace at normal cadence", 0.3, 10, true}, // 108 km/h
		{"too fast for highway tier", 0.45, 10, false},    // 162 km/h
		{"exact normal boundary excluded without speed", 0.2, 0, false},
		{"throttled sampling with plausible speed", 0.9, 40, true}, // 81 km/h
		{"throttled distance but short gap", 0.9, 25, false},
		{"beyond throttled ceiling", 1.5, 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := includeSegment(tt.segKM, tt.gapSec); got != tt.want {
				t.Errorf("includeSegment(%v, %v) = %v, want %v", tt.segKM, tt.gapSec, got, tt.want)
			}
		})
	}
}

func TestReduceDistanceStationaryFallback(t *testing.T) {
	pickup := Point{Latitude: 12.90, Longitude: 77.60}
	// 50 m away: under the stationary threshold
	destination := Point{Latitude: 12.90 + 0.05*degPerKM, Longitude: 77.60}

	got, err := ReduceDistance(nil, pickup, destination)
	if err != nil {
		t.Fatalf("ReduceDistance() error = %v", err)
	}
	if !got.Stationary {
		t.Fatal("Stationary = false, want true")
	}
	if got.DistanceKM != 0.1 {
		t.Errorf("DistanceKM = %v, want 0.1 (nominal minimum)", got.DistanceKM)
	}
	if got.DurationMinutes != 1 {
		t.Errorf("DurationMinutes = %d, want 1", got.DurationMinutes)
	}
}

func TestReduceDistanceInsufficientFixes(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	pickup := Point{Latitude: 12.90, Longitude: 77.60}
	destination := Point{Latitude: 12.95, Longitude: 77.60}

	for _, fixes := range [][]Fix{nil, {fixAt(t0, 0, 12.90, 77.60)}} {
		_, err := ReduceDistance(fixes, pickup, destination)
		if !errors.Is(err, ErrInsufficientFixes) {
			t.Errorf("ReduceDistance(%d fixes) error = %v, want ErrInsufficientFixes", len(fixes), err)
		}
	}
}

func TestReduceDistanceSortsOutOfOrderFixes(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	ordered := trackAlongLatitude(t0, 12.90, 77.60, 8, 0.15, 10)
	shuffled := []Fix{ordered[3], ordered[0], ordered[7], ordered[1], ordered[5], ordered[2], ordered[6], ordered[4]}

	pickup := Point{Latitude: 12.90, Longitude: 77.60}
	destination := Point{Latitude: ordered[7].Latitude, Longitude: 77.60}

	a, err := ReduceDistance(ordered, pickup, destination)
	if err != nil {
		t.Fatalf("ReduceDistance(ordered) error = %v", err)
	}
	b, err := ReduceDistance(shuffled, pickup, destination)
	if err != nil {
		t.Fatalf("ReduceDistance(shuffled) error = %v", err)
	}
	if a.DistanceKM != b.DistanceKM || a.FixesUsed != b.FixesUsed || a.DurationMinutes != b.DurationMinutes {
		t.Errorf("order-sensitive result: ordered=%+v shuffled=%+v", a, b)
	}
}

func TestReduceDistanceAdvisoryFlags(t *testing.T) {
	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("tracking incomplete", func(t *testing.T) {
		// endpoints 10 km apart but only ~0.45 km of track recorded
		fixes := trackAlongLatitude(t0, 12.90, 77.60, 4, 0.15, 10)
		pickup := Point{Latitude: 12.90, Longitude: 77.60}
		destination := Point{Latitude: 12.90 + 10.0*degPerKM, Longitude: 77.60}

		got, err := ReduceDistance(fixes, pickup, destination)
		if err != nil {
			t.Fatalf("ReduceDistance() error = %v", err)
		}
		if len(got.Flags) != 1 || got.Flags[0] != FlagTrackingIncomplete {
			t.Errorf("Flags = %v, want [%s]", got.Flags, FlagTrackingIncomplete)
		}
	})

	t.Run("erratic tracking", func(t *testing.T) {
		// ~2.85 km of track between endpoints only 0.5 km apart
		fixes := trackAlongLatitude(t0, 12.90, 77.60, 20, 0.15, 10)
		pickup := Point{Latitude: 12.90, Longitude: 77.60}
		destination := Point{Latitude: 12.90 + 0.5*degPerKM, Longitude: 77.60}

		got, err := ReduceDistance(fixes, pickup, destination)
		if err != nil {
			t.Fatalf("ReduceDistance() error = %v", err)
		}
		if len(got.Flags) != 1 || got.Flags[0] != FlagErraticTracking {
			t.Errorf("Flags = %v, want [%s]", got.Flags, FlagErraticTracking)
		}
	})
}
