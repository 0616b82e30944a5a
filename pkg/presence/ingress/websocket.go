/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ingress

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
	"github.com/carverauto/devicepulse/pkg/presence"
)

const (
	deviceQueryParam = "device"
	deviceHeader     = "X-Device-ID"
)

// WebSocketAdapter turns WebSocket connection lifecycle into presence
// signals: handshake means ONLINE, any inbound frame is activity, and the
// read loop ending means OFFLINE. The device identifier comes from the
// handshake query parameter or header.
type WebSocketAdapter struct {
	reporter presence.Reporter
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewWebSocketAdapter creates a handler ready to mount on an HTTP mux.
func NewWebSocketAdapter(reporter presence.Reporter, log logger.Logger) *WebSocketAdapter {
	return &WebSocketAdapter{
		reporter: reporter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log,
	}
}

// ServeHTTP upgrades the connection and pumps its lifecycle into the registry.
func (a *WebSocketAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identifier := identifierFromRequest(r)
	if identifier == "" {
		a.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("WebSocket handshake without device identifier rejected")
		http.Error(w, "missing device identifier", http.StatusBadRequest)

		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("WebSocket upgrade failed")
		return
	}

	defer func() { _ = conn.Close() }()

	ctx := r.Context()

	transport := &models.TransportDetails{
		ClientHandle: identifier,
	}

	if host, portStr, splitErr := net.SplitHostPort(r.RemoteAddr); splitErr == nil {
		transport.Address = host
		if port, convErr := strconv.Atoi(portStr); convErr == nil {
			transport.Port = port
		}
	} else {
		transport.Address = r.RemoteAddr
	}

	if err := a.reporter.ReportConnect(ctx, identifier, models.ProtocolWebSocket, transport); err != nil {
		a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("WebSocket connect signal failed")
	}

	a.readLoop(ctx, conn, identifier)

	// The request context is canceled once the peer is gone; the final
	// OFFLINE transition must still persist.
	if err := a.reporter.ReportDisconnect(context.WithoutCancel(ctx), identifier, models.ProtocolWebSocket); err != nil {
		a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("WebSocket disconnect signal failed")
	}
}

// readLoop treats every inbound frame as an activity signal until the peer
// goes away.
func (a *WebSocketAdapter) readLoop(ctx context.Context, conn *websocket.Conn, identifier string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.logger.Debug().Err(err).Str("device_identifier", identifier).Msg("WebSocket closed unexpectedly")
			}

			return
		}

		metadata := map[string]string{
			"ws_message_type": strconv.Itoa(messageType),
			"last_message":    string(payload),
		}

		if err := a.reporter.ReportActivity(ctx, identifier, metadata); err != nil {
			a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("WebSocket activity signal failed")
		}
	}
}

func identifierFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get(deviceQueryParam); id != "" {
		return id
	}

	return r.Header.Get(deviceHeader)
}
