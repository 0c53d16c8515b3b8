package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fare-engine/internal/domain/fare"
	"fare-engine/internal/domain/trip"
	"fare-engine/internal/general/jwt"
	"fare-engine/internal/ports"
	"fare-engine/internal/software/completion/service"

	"github.com/jackc/pgx/v5/pgconn"
)

// ----- Handler: POST /trips/{trip_id}/complete -----

func (handler *FareHTTPHandler) handleCompleteTrip(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// fetch and check the trip id
	tripID := strings.TrimSpace(r.PathValue("trip_id"))
	if tripID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing trip_id in path", nil)
		return
	}

	// obtain the JWT claims; the token subject is the driver completing the trip
	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}
	driverID := strings.TrimSpace(claims.Subject)
	if driverID == "" {
		handler.httpError(ctx, w, http.StatusUnauthorized, "token has no subject", nil)
		return
	}

	in := ports.CompleteTripInput{
		DriverID: driverID,
		TripID:   tripID,
	}

	// bound service call; completion does real work (GPS reduction + fare
	// resolution + two writes) so give it a wider window than simple reads
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := handler.svc.CompleteTrip(ctxWithTimeout, in)
	if err != nil {
		handler.completeTripError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// completeTripError maps the service's typed failures onto HTTP statuses.
func (handler *FareHTTPHandler) completeTripError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTripNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "trip not found", err)

	case errors.Is(err, trip.ErrNotOwnedByDriver):
		handler.httpError(ctx, w, http.StatusForbidden, "trip is not assigned to this driver", err)

	case errors.Is(err, trip.ErrInvalidStatusTransition):
		handler.httpError(ctx, w, http.StatusConflict, "trip is not in progress", err)

	case errors.Is(err, fare.ErrInsufficientGPSData):
		// the trip stays IN_PROGRESS; the client may retry once more fixes land
		handler.httpError(ctx, w, http.StatusUnprocessableEntity, err.Error(), err)

	case errors.Is(err, fare.ErrRateConfigMissing):
		handler.httpError(ctx, w, http.StatusInternalServerError, err.Error(), err)

	default:
		// distinguish DB failures from everything else in logs, same status out
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctx, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctx, w, http.StatusInternalServerError, "failed to complete trip", err)
	}
}
