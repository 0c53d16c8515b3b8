package postgres

import (
	"context"
	"errors"
	"fmt"

	"fare-engine/internal/domain/fare"
	"fare-engine/internal/domain/trip"
	"fare-engine/internal/ports"

	"github.com/jackc/pgx/v5"
)

// RateTableRepo loads pricing configuration from rate_tables/rate_slabs.
type RateTableRepo struct{}

// NewRateTableRepo constructs a new RateTableRepo.
func NewRateTableRepo() ports.RateTableRepository {
	return &RateTableRepo{}
}

// GetForTrip loads the rate table for the (vehicle type, booking type) pair.
// Returns (nil, nil) when no row exists: a missing table is a configuration
// gap the service reports as RATE_CONFIG_MISSING, not a database error.
func (repo *RateTableRepo) GetForTrip(ctx context.Context, vt trip.VehicleType, bt trip.BookingType) (*fare.RateTable, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get transaction from context: %w", err)
	}

	var (
		table   fare.RateTable
		tableID string
	)
	err = tx.QueryRow(ctx, `
		SELECT id, vehicle_type, booking_type,
		       extra_km_rate, base_fare, per_km_rate,
		       included_hours, hourly_overage_rate,
		       airport_surcharge, driver_allowance
		FROM rate_tables
		WHERE vehicle_type = $1 AND booking_type = $2 AND active = TRUE
	`, vt.String(), bt.String()).Scan(
		&tableID, &table.VehicleType, &table.BookingType,
		&table.ExtraKMRate, &table.BaseFare, &table.PerKMRate,
		&table.IncludedHours, &table.HourlyOverageRate,
		&table.AirportSurcharge, &table.DriverAllowance,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query rate table: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT coverage_km, flat_fare
		FROM rate_slabs
		WHERE rate_table_id = $1
		ORDER BY coverage_km ASC
	`, tableID)
	if err != nil {
		return nil, fmt.Errorf("query rate slabs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slab fare.RateSlab
		if err := rows.Scan(&slab.CoverageKM, &slab.FlatFare); err != nil {
			return nil, fmt.Errorf("scan rate slab: %w", err)
		}
		table.Slabs = append(table.Slabs, slab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	// enforce the ascending-coverage invariant regardless of index order
	table.Normalize()
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("rate table %s: %w", tableID, err)
	}

	return &table, nil
}
