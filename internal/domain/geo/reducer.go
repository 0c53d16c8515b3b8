package geo

import (
	"errors"
	"math"
	"sort"
)

// Segment inclusion tiers. A single hard cutoff (the old "discard anything
// over 200m" rule) throws away legitimate data whenever the GPS source
// throttles its sampling rate under load, so segments are admitted by
// distance, gap length, and implied speed together.
const (
	normalSegmentKM    = 0.2   // always include below this
	highwaySegmentKM   = 0.5   // include if implied speed stays plausible
	highwayMaxSpeedKMH = 120.0 //
	throttledSegmentKM = 1.0   // include only for long sampling gaps
	throttledMinGapSec = 30.0  //
	throttledMaxSpeed  = 150.0 //
)

// Stationary-trip fallback: a driver who never moved is still billed a
// minimum fare instead of blocking completion.
const (
	stationaryThresholdKM = 0.1
	stationaryMinimumKM   = 0.1
	stationaryMinimumMin  = 1
)

// TrackingFlag is an advisory signal about tracked-distance quality. Flags
// are logged, never blocking: the fare pipeline always proceeds with the
// distance it computed.
type TrackingFlag string

const (
	// FlagTrackingIncomplete fires when the reduced GPS distance is below
	// half the straight-line distance between trip endpoints (tracking
	// likely stopped mid-trip).
	FlagTrackingIncomplete TrackingFlag = "tracking_incomplete"

	// FlagErraticTracking fires when the reduced distance exceeds three
	// times the straight-line distance (likely uncorrected GPS jumps).
	FlagErraticTracking TrackingFlag = "erratic_tracking"
)

// ErrInsufficientFixes indicates fewer than 2 usable fixes for a trip that
// was not stationary. Tracking failed; there is no sanctioned distance.
var ErrInsufficientFixes = errors.New("fewer than 2 GPS fixes recorded for trip")

// TrackedDistance is the reduced one-way GPS distance for a trip.
// Recomputed fresh on every request; never cached across completions.
type TrackedDistance struct {
	DistanceKM      float64
	FixesUsed       int
	DurationMinutes int
	Stationary      bool
	Flags           []TrackingFlag
}

// ReduceDistance walks consecutive fix pairs, filters implausible jumps, and
// sums the surviving segment distances. pickup and destination are the trip's
// booking endpoints, used for the stationary check and the sanity flags
// independently of the fix sequence.
func ReduceDistance(fixes []Fix, pickup, destination Point) (TrackedDistance, error) {
	straightKM := DistanceKM(pickup, destination)

	// a trip whose endpoints are effectively the same place is stationary;
	// bill the nominal minimum rather than failing completion
	if straightKM < stationaryThresholdKM {
		return TrackedDistance{
			DistanceKM:      stationaryMinimumKM,
			FixesUsed:       len(fixes),
			DurationMinutes: stationaryMinimumMin,
			Stationary:      true,
		}, nil
	}

	if len(fixes) < 2 {
		return TrackedDistance{}, ErrInsufficientFixes
	}

	ordered := make([]Fix, len(fixes))
	copy(ordered, fixes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	var (
		totalKM float64
		used    = make([]bool, len(ordered))
	)
	for i := 1; i < len(ordered); i++ {
		prev, curr := ordered[i-1], ordered[i]
		segKM := HaversineKM(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
		gapSec := curr.RecordedAt.Sub(prev.RecordedAt).Seconds()

		if !includeSegment(segKM, gapSec) {
			continue
		}
		totalKM += segKM
		used[i-1], used[i] = true, true
	}

	fixesUsed := 0
	for _, u := range used {
		if u {
			fixesUsed++
		}
	}

	reduced := TrackedDistance{
		DistanceKM:      totalKM,
		FixesUsed:       fixesUsed,
		DurationMinutes: durationMinutes(ordered),
	}

	// advisory sanity checks against the straight-line distance
	if totalKM < 0.5*straightKM {
		reduced.Flags = append(reduced.Flags, FlagTrackingIncomplete)
	} else if totalKM > 3.0*straightKM {
		reduced.Flags = append(reduced.Flags, FlagErraticTracking)
	}

	return reduced, nil
}

// includeSegment applies the tiered jump filter to one consecutive-fix pair.
func includeSegment(segKM, gapSec float64) bool {
	// normal sampling cadence
	if segKM < normalSegmentKM {
		return true
	}

	impliedKMH := math.Inf(1)
	if gapSec > 0 {
		impliedKMH = segKM / gapSec * 3600
	}

	// highway driving at a normal sampling rate
	if segKM < highwaySegmentKM && impliedKMH < highwayMaxSpeedKMH {
		return true
	}

	// throttled sampling: a large gap that is still physically plausible
	if segKM < throttledSegmentKM && gapSec > throttledMinGapSec && impliedKMH < throttledMaxSpeed {
		return true
	}

	return false
}

// durationMinutes returns whole minutes between the first and last fix.
func durationMinutes(ordered []Fix) int {
	if len(ordered) < 2 {
		return stationaryMinimumMin
	}
	minutes := ordered[len(ordered)-1].RecordedAt.Sub(ordered[0].RecordedAt).Minutes()
	m := int(math.Ceil(minutes))
	if m < 1 {
		return 1
	}
	return m
}
