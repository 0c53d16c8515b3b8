package postgres

import (
	"context"
	"fmt"

	"fare-engine/internal/domain/geo"
	"fare-engine/internal/ports"
)

// TripFixRepo reads raw GPS fixes recorded during a trip.
type TripFixRepo struct{}

// NewTripFixRepo constructs a new TripFixRepo.
func NewTripFixRepo() ports.TripFixRepository {
	return &TripFixRepo{}
}

// ListForTrip returns all fixes for the trip ordered by recorded_at ascending.
// The reducer re-sorts defensively, but the index on (trip_id, recorded_at)
// makes the ordered read free.
func (repo *TripFixRepo) ListForTrip(ctx context.Context, tripID string) ([]geo.Fix, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	query := `
        SELECT id, trip_id, latitude, longitude, speed_kmh, recorded_at
        FROM trip_fixes
        WHERE trip_id = $1
        ORDER BY recorded_at ASC`

	rows, err := tx.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("query fixes for trip: %w", err)
	}
	defer rows.Close()

	var fixes []geo.Fix
	for rows.Next() {
		var f geo.Fix
		if err := rows.Scan(&f.ID, &f.TripID, &f.Latitude, &f.Longitude, &f.SpeedKMH, &f.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan fix: %w", err)
		}
		fixes = append(fixes, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return fixes, nil
}
