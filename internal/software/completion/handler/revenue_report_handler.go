package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// defaultReportWindow is used when the caller omits the range.
const defaultReportWindow = 24 * time.Hour

// handleRevenueReport serves GET /fares/report for admins: completed-trip
// count and collected fare total over a time window.
func (handler *FareHTTPHandler) handleRevenueReport(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	from, to, err := parseReportRange(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := handler.svc.GetRevenueReport(ctx, from, to)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "Failed to build revenue report", err)
		return
	}

	handler.jsonResponse(ctx, w, http.StatusOK, out)
}

// parseReportRange reads the optional from/to query params (RFC3339). The
// default window is the last 24 hours ending now.
func parseReportRange(r *http.Request) (from, to time.Time, err error) {
	now := time.Now().UTC()
	from, to = now.Add(-defaultReportWindow), now

	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'from' timestamp: %w", err)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'to' timestamp: %w", err)
		}
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, errors.New("'from' must be before 'to'")
	}
	return from, to, nil
}
