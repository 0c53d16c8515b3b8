package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fare-engine/internal/domain/fare"
	"fare-engine/internal/domain/trip"
	"fare-engine/internal/general/logger"
)

// passthroughUOW runs the closure without a real transaction.
type passthroughUOW struct{}

func (passthroughUOW) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type stubTripRepo struct {
	completed int
	countErr  error
}

func (s stubTripRepo) GetByID(context.Context, string) (*trip.Trip, error) { return nil, nil }
func (s stubTripRepo) Complete(context.Context, string, float64, float64, string, time.Time) error {
	return nil
}
func (s stubTripRepo) CountCompletedBetween(context.Context, time.Time, time.Time) (int, error) {
	return s.completed, s.countErr
}

type stubFareRepo struct {
	total  float64
	sumErr error
}

func (s stubFareRepo) Insert(context.Context, string, *fare.Breakdown) error { return nil }
func (s stubFareRepo) GetByTripID(context.Context, string) (*fare.Breakdown, error) {
	return nil, nil
}
func (s stubFareRepo) SumTotalBetween(context.Context, time.Time, time.Time) (float64, error) {
	return s.total, s.sumErr
}

func newStubService(t *testing.T, trips stubTripRepo, fares stubFareRepo, prefetch int) *completionService {
	t.Helper()
	svc := NewCompletionService(logger.New("fare-service-test"), passthroughUOW{},
		trips, nil, nil, fares, nil, nil, nil, nil, prefetch)
	cs, ok := svc.(*completionService)
	if !ok {
		t.Fatalf("NewCompletionService returned %T", svc)
	}
	return cs
}

func TestGetRevenueReport(t *testing.T) {
	svc := newStubService(t, stubTripRepo{completed: 42}, stubFareRepo{total: 61250.5}, 8)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	out, err := svc.GetRevenueReport(context.Background(), from, to)
	if err != nil {
		t.Fatalf("GetRevenueReport() error = %v", err)
	}
	if out.TripsCompleted != 42 {
		t.Errorf("TripsCompleted = %d, want 42", out.TripsCompleted)
	}
	if out.TotalRevenue != 61250.5 {
		t.Errorf("TotalRevenue = %v, want 61250.5", out.TotalRevenue)
	}
	if !out.From.Equal(from) || !out.To.Equal(to) {
		t.Errorf("window = [%v, %v), want [%v, %v)", out.From, out.To, from, to)
	}
}

func TestGetRevenueReportPropagatesRepoErrors(t *testing.T) {
	dbErr := errors.New("connection reset")
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	t.Run("trip count fails", func(t *testing.T) {
		svc := newStubService(t, stubTripRepo{countErr: dbErr}, stubFareRepo{}, 8)
		if _, err := svc.GetRevenueReport(context.Background(), from, to); !errors.Is(err, dbErr) {
			t.Errorf("GetRevenueReport() error = %v, want %v", err, dbErr)
		}
	})

	t.Run("fare sum fails", func(t *testing.T) {
		svc := newStubService(t, stubTripRepo{}, stubFareRepo{sumErr: dbErr}, 8)
		if _, err := svc.GetRevenueReport(context.Background(), from, to); !errors.Is(err, dbErr) {
			t.Errorf("GetRevenueReport() error = %v, want %v", err, dbErr)
		}
	})
}

func TestNewCompletionServicePrefetch(t *testing.T) {
	if got := newStubService(t, stubTripRepo{}, stubFareRepo{}, 32).prefetch; got != 32 {
		t.Errorf("prefetch = %d, want the configured 32", got)
	}
	if got := newStubService(t, stubTripRepo{}, stubFareRepo{}, 0).prefetch; got != defaultPrefetch {
		t.Errorf("prefetch = %d, want default %d", got, defaultPrefetch)
	}
}
