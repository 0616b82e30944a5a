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

// Package presence tracks live device connectivity. The Registry is the
// single source of truth for a device's current status; the heartbeat
// monitor and stale-connection sweeper mutate it on their own schedules
// and emit the same bus events as live protocol signals.
package presence

import (
	"context"

	"github.com/carverauto/devicepulse/pkg/models"
)

//go:generate mockgen -destination=mock_presence.go -package=presence github.com/carverauto/devicepulse/pkg/presence Manager,Reporter

// Manager is the connection registry contract consumed by protocol
// adapters, the sweeper, and read-side callers.
type Manager interface {
	// SetStatus merges a status signal into the device's presence record
	// and returns a snapshot of the result. It fails with
	// db.ErrDeviceNotFound when the device is unknown to the durable
	// store, in which case no state is recorded.
	SetStatus(ctx context.Context, deviceID string, status models.DeviceStatus, protocol models.Protocol, partial *models.PresenceRecord) (*models.PresenceRecord, error)

	// UpdateActivity advances LastActivityAt and merges metadata without
	// touching status. Activity for a device with no current record is
	// dropped silently.
	UpdateActivity(ctx context.Context, deviceID string, metadata map[string]string)

	Get(deviceID string) (*models.PresenceRecord, bool)
	GetAll() []*models.PresenceRecord
	CountOnline() int
	CountByProtocol() map[models.Protocol]int
}

// Reporter is the only inbound contract protocol listeners may call.
// Implementations resolve a protocol-native device identifier to a durable
// device and translate the signal into a registry call.
type Reporter interface {
	ReportConnect(ctx context.Context, deviceIdentifier string, protocol models.Protocol, transport *models.TransportDetails) error
	ReportDisconnect(ctx context.Context, deviceIdentifier string, protocol models.Protocol) error
	ReportActivity(ctx context.Context, deviceIdentifier string, metadata map[string]string) error
}

// StatusBroadcaster pushes realtime status updates to scoped subscribers.
// Satisfied by natsutil.Broadcaster.
type StatusBroadcaster interface {
	Broadcast(ctx context.Context, scope, event string, payload any) error
}

// EventPublisher emits presence transitions to the event stream.
// Satisfied by natsutil.EventPublisher.
type EventPublisher interface {
	PublishPresenceEvent(ctx context.Context, data models.DevicePresenceEventData) error
}
