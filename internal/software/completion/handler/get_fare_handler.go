package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fare-engine/internal/software/completion/service"
)

// ----- Handler: GET /trips/{trip_id}/fare -----

// handleGetFare returns the persisted fare breakdown for a trip. Admin tokens
// may read any trip; driver tokens are checked against trip ownership by the
// service layer when completing, and this read endpoint is audit-oriented.
func (handler *FareHTTPHandler) handleGetFare(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	tripID := strings.TrimSpace(r.PathValue("trip_id"))
	if tripID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing trip_id in path", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.GetFare(ctxWithTimeout, tripID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "trip not found", err)
		case errors.Is(err, service.ErrFareNotFound):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "no fare recorded for trip", err)
		default:
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to load fare", err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
