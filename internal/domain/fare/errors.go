package fare

import "errors"

var (
	// ErrInsufficientGPSData: fewer than 2 usable fixes and the trip was not
	// stationary. Never auto-recovered by estimating distance from a routing
	// service; the caller decides whether to block completion.
	ErrInsufficientGPSData = errors.New("INSUFFICIENT_GPS_DATA: not enough GPS fixes to compute trip distance")

	// ErrRateConfigMissing: no slab table and no per-km fallback configured
	// for the vehicle/booking combination.
	ErrRateConfigMissing = errors.New("RATE_CONFIG_MISSING: no rate configuration for vehicle and booking type")
)
