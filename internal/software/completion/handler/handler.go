package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fare-engine/internal/domain/user"
	"fare-engine/internal/general/jwt"
	"fare-engine/internal/general/logger"
	"fare-engine/internal/general/websocket"
	"fare-engine/internal/ports"
)

// FareHTTPHandler adapts HTTP requests to the CompletionService.
type FareHTTPHandler struct {
	svc       ports.CompletionService
	logger    *logger.Logger
	auth      *jwt.Manager
	websocket *websocket.WebSocket
}

// NewFareHTTPHandler wires an HTTP handler around the CompletionService.
func NewFareHTTPHandler(
	svc ports.CompletionService,
	logger *logger.Logger,
	auth *jwt.Manager,
	ws *websocket.WebSocket,
) *FareHTTPHandler {
	return &FareHTTPHandler{svc: svc, logger: logger, auth: auth, websocket: ws}
}

// RegisterRoutes mounts fare endpoints on the provided mux.
func (handler *FareHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /trips/{trip_id}/complete",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver)(handler.handleCompleteTrip),
	)
	mux.HandleFunc("GET /trips/{trip_id}/fare",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleDriver, user.RoleAdmin)(handler.handleGetFare),
	)
	mux.HandleFunc("GET /fares/report",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleRevenueReport),
	)

	// WebSocket authenticates via its first frame, not middleware
	mux.HandleFunc("GET /ws/driver/{driver_id}", handler.websocket.ConnectDriver)

	mux.HandleFunc("GET /fares/health", handler.handleHealth)
	mux.HandleFunc("POST /tokens", handler.handleCreateToken)
}

// ----- general helpers -----

type TokenRequest struct {
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      user.Role `json:"role"`
}

// handleCreateToken generates JWT tokens for testing
func (handler *FareHTTPHandler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Validate required fields
	if strings.TrimSpace(req.UserID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	// Generate token
	tokenString, claims, err := handler.auth.IssueUserToken(req.UserID, req.Role)
	if err != nil {
		handler.httpError(ctx, w, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	response := TokenResponse{
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    req.UserID,
		Role:      req.Role,
	}

	handler.logger.Info(ctx, "token_generated", "JWT token generated successfully",
		map[string]any{"user_id": req.UserID, "role": req.Role.String()})

	handler.jsonResponse(ctx, w, http.StatusCreated, response)
}

// jsonResponse takes any type of data and encode it to HTTP response.
func (handler *FareHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *FareHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *FareHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
