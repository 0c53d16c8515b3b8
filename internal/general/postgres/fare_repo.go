package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fare-engine/internal/domain/fare"
	"fare-engine/internal/ports"

	"github.com/jackc/pgx/v5"
)

// FareRepo persists fare breakdowns. A breakdown row is written exactly once
// per trip; corrections get a new row, never an UPDATE.
type FareRepo struct{}

// NewFareRepo constructs a new FareRepo.
func NewFareRepo() ports.FareRepository {
	return &FareRepo{}
}

// Insert writes the immutable fare breakdown for a trip. Scalar columns carry
// the queryable totals; the full breakdown is stored as JSONB for audit.
func (repo *FareRepo) Insert(ctx context.Context, tripID string, breakdown *fare.Breakdown) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trip_fares (
			trip_id, total_fare, billing_distance_km, tracked_distance_km,
			pricing_method, dropoff_zone, breakdown
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		tripID,
		breakdown.TotalFare,
		breakdown.BillingDistanceKM,
		breakdown.TrackedDistanceKM,
		breakdown.PricingMethod,
		breakdown.DropoffZone,
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert trip fare: %w", err)
	}

	return nil
}

// GetByTripID loads the persisted breakdown for a trip, or (nil, nil) when no
// fare has been recorded yet.
func (repo *FareRepo) GetByTripID(ctx context.Context, tripID string) (*fare.Breakdown, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = tx.QueryRow(ctx, `
		SELECT breakdown
		FROM trip_fares
		WHERE trip_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, tripID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query trip fare: %w", err)
	}

	var breakdown fare.Breakdown
	if err := json.Unmarshal(payload, &breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}

	return &breakdown, nil
}

// SumTotalBetween sums fare totals recorded in [start, end). Used by the
// revenue report.
func (repo *FareRepo) SumTotalBetween(ctx context.Context, start, end time.Time) (float64, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_fare), 0)
		FROM trip_fares
		WHERE created_at >= $1 AND created_at < $2
	`, start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum trip fares: %w", err)
	}

	return total, nil
}
