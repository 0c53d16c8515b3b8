package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fare-engine/internal/general/contracts"

	"github.com/gorilla/websocket"
)

// wsWriteClose sends a close control frame with the given code and reason.
func (ws *WebSocket) wsWriteClose(conn *websocket.Conn, code int, reason string) {
	mu := ws.lockOf(conn)
	mu.Lock()
	defer mu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(wsCloseAckWindow),
	)
	ws.writeLocks.Delete(conn)
}

// wsWriteMessage sets a short write deadline and writes a message.
func (ws *WebSocket) wsWriteMessage(conn *websocket.Conn, mt int, payload []byte) error {
	mu := ws.lockOf(conn)
	mu.Lock()
	defer mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(mt, payload)
}

// lockOf returns the mutex for a specific connection
func (ws *WebSocket) lockOf(conn *websocket.Conn) *sync.Mutex {
	if v, ok := ws.writeLocks.Load(conn); ok {
		if mu, ok := v.(*sync.Mutex); ok && mu != nil {
			return mu
		}
	}
	mu := &sync.Mutex{}
	actual, _ := ws.writeLocks.LoadOrStore(conn, mu)
	return actual.(*sync.Mutex)
}

// RegisterDriverConn registers a driver connection for outbound pushes.
func (ws *WebSocket) RegisterDriverConn(driverID string, conn *websocket.Conn) {
	ws.driverConns.Store(driverID, conn)
}

// GetDriverConn returns the live connection for a driver, if any.
func (ws *WebSocket) GetDriverConn(driverID string) (*websocket.Conn, bool) {
	v, ok := ws.driverConns.Load(driverID)
	if !ok {
		return nil, false
	}
	conn, ok := v.(*websocket.Conn)
	return conn, ok
}

// RemoveDriverConn unregisters a driver connection.
func (ws *WebSocket) RemoveDriverConn(driverID string) {
	ws.driverConns.Delete(driverID)
	ws.logger.Info(context.Background(), "driver_ws_removed", "Driver WebSocket connection removed",
		map[string]any{"driver_id": driverID})
}

// IsDriverConnected checks if a driver is currently connected via WebSocket
func (ws *WebSocket) IsDriverConnected(driverID string) bool {
	conn, ok := ws.GetDriverConn(driverID)
	return ok && conn != nil
}

// SendToDriver marshals msg and writes it to the driver's connection.
func (ws *WebSocket) SendToDriver(driverID string, msg interface{}) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	conn, ok := ws.GetDriverConn(driverID)
	if !ok {
		return fmt.Errorf("driver %s not connected", driverID)
	}

	return ws.wsWriteMessage(conn, websocket.TextMessage, payload)
}

// NotifyFareSummary pushes the completed-trip fare summary to the driver.
// Best effort: an offline driver fetches the fare over HTTP later.
func (ws *WebSocket) NotifyFareSummary(ctx context.Context, driverID string, summary contracts.WSFareSummary) {
	summary.Type = "fare_summary"
	if err := ws.SendToDriver(driverID, summary); err != nil {
		ws.logger.Debug(ctx, "fare_summary_push_skipped", "Driver offline, fare summary not pushed", map[string]any{
			"driver_id": driverID,
			"trip_id":   summary.TripID,
		})
	}
}

// NotifyFareAlert pushes a fare alert to the driver. Blocking alerts tell the
// app to stop the driver from starting a new trip until support resolves the
// failed fare.
func (ws *WebSocket) NotifyFareAlert(ctx context.Context, driverID string, alert contracts.WSFareAlert) error {
	alert.Type = "fare_alert"
	if err := ws.SendToDriver(driverID, alert); err != nil {
		ws.logger.Error(ctx, "fare_alert_push_failed", "Failed to push fare alert to driver", err, map[string]any{
			"driver_id": driverID,
			"trip_id":   alert.TripID,
			"blocking":  alert.Blocking,
		})
		return err
	}
	return nil
}
