package service

import (
	"context"
	"time"

	"fare-engine/internal/ports"
)

// GetRevenueReport aggregates completed-trip counts and collected fare totals
// for [from, to). Both aggregates run in one transaction so the count and the
// sum describe the same snapshot.
func (service *completionService) GetRevenueReport(ctx context.Context, from, to time.Time) (ports.RevenueReportResult, error) {
	out := ports.RevenueReportResult{From: from, To: to}

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		count, err := service.trips.CountCompletedBetween(ctx, from, to)
		if err != nil {
			return err
		}
		total, err := service.fares.SumTotalBetween(ctx, from, to)
		if err != nil {
			return err
		}

		out.TripsCompleted = count
		out.TotalRevenue = total
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "revenue_report_failed", "Failed to build revenue report", err, map[string]any{
			"from": from,
			"to":   to,
		})
		return ports.RevenueReportResult{}, err
	}

	return out, nil
}
