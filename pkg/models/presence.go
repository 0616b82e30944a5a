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

package models

import (
	"time"
)

// DeviceStatus is the canonical connectivity state of a device as tracked
// by the presence registry.
type DeviceStatus string

const (
	DeviceStatusOnline   DeviceStatus = "online"
	DeviceStatusOffline  DeviceStatus = "offline"
	DeviceStatusInactive DeviceStatus = "inactive"
	DeviceStatusError    DeviceStatus = "error"
)

// Protocol identifies the wire protocol currently asserting a device's state.
type Protocol string

const (
	ProtocolMQTT      Protocol = "mqtt"
	ProtocolTCP       Protocol = "tcp"
	ProtocolUDP       Protocol = "udp"
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
	ProtocolCoAP      Protocol = "coap"
	ProtocolUnknown   Protocol = "unknown"
)

// PresenceRecord is the in-memory presence state for a single device. At
// most one record exists per device ID; the registry owns all mutation.
type PresenceRecord struct {
	DeviceID         string            `json:"device_id"`
	DeviceIdentifier string            `json:"device_identifier"`
	Status           DeviceStatus      `json:"status"`
	Protocol         Protocol          `json:"protocol"`
	Address          string            `json:"address,omitempty"`
	Port             int               `json:"port,omitempty"`
	ClientHandle     string            `json:"client_handle,omitempty"`
	ConnectedAt      *time.Time        `json:"connected_at,omitempty"`
	DisconnectedAt   *time.Time        `json:"disconnected_at,omitempty"`
	LastActivityAt   time.Time         `json:"last_activity_at"`
	SessionID        string            `json:"session_id,omitempty"`
	DurationSeconds  int64             `json:"duration_seconds,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy so snapshot reads never alias registry-owned state.
func (r *PresenceRecord) Clone() *PresenceRecord {
	if r == nil {
		return nil
	}

	out := *r

	if r.ConnectedAt != nil {
		t := *r.ConnectedAt
		out.ConnectedAt = &t
	}

	if r.DisconnectedAt != nil {
		t := *r.DisconnectedAt
		out.DisconnectedAt = &t
	}

	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}

	return &out
}

// Device is the durable device entity owned by the external store. The
// presence core reads it for existence checks and organization resolution
// and writes back only the durable status fields.
type Device struct {
	DeviceID       string       `json:"device_id"`
	Identifier     string       `json:"identifier"`
	OrganizationID string       `json:"organization_id"`
	Name           string       `json:"name,omitempty"`
	Status         DeviceStatus `json:"status"`
	LastOnlineAt   *time.Time   `json:"last_online_at,omitempty"`
}

// ConnectionLog is one audit row written to the durable store for every
// presence transition.
type ConnectionLog struct {
	DeviceID        string            `json:"device_id"`
	Status          DeviceStatus      `json:"status"`
	Protocol        Protocol          `json:"protocol"`
	ClientHandle    string            `json:"client_handle,omitempty"`
	Address         string            `json:"address,omitempty"`
	Port            int               `json:"port,omitempty"`
	ConnectedAt     *time.Time        `json:"connected_at,omitempty"`
	DisconnectedAt  *time.Time        `json:"disconnected_at,omitempty"`
	DurationSeconds int64             `json:"duration_seconds,omitempty"`
	SessionID       string            `json:"session_id,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Timestamp       time.Time         `json:"timestamp"`
}

// PresenceEvent is published on the status-change bus whenever a device's
// canonical status actually changes. Previous is nil for a first sighting.
type PresenceEvent struct {
	DeviceID       string          `json:"device_id"`
	PreviousStatus DeviceStatus    `json:"previous_status,omitempty"`
	CurrentStatus  DeviceStatus    `json:"current_status"`
	Record         *PresenceRecord `json:"record"`
	Previous       *PresenceRecord `json:"previous,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// TransportDetails carries the transport-level correlation data a protocol
// listener observed for a connect signal.
type TransportDetails struct {
	Address      string            `json:"address,omitempty"`
	Port         int               `json:"port,omitempty"`
	ClientHandle string            `json:"client_handle,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}
