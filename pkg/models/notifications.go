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

// EventType is the notification event class derived from a presence transition.
type EventType string

const (
	EventDeviceOnline   EventType = "device_online"
	EventDeviceOffline  EventType = "device_offline"
	EventDeviceInactive EventType = "device_inactive"
	EventDeviceError    EventType = "device_error"
)

// EventTypeForStatus maps a canonical device status to its notification
// event type.
func EventTypeForStatus(status DeviceStatus) EventType {
	switch status {
	case DeviceStatusOnline:
		return EventDeviceOnline
	case DeviceStatusOffline:
		return EventDeviceOffline
	case DeviceStatusInactive:
		return EventDeviceInactive
	case DeviceStatusError:
		return EventDeviceError
	default:
		return EventType("device_" + string(status))
	}
}

// Priority orders notification urgency.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsElevated reports whether a priority must also reach the system-wide
// operator channel regardless of per-organization configuration.
func (p Priority) IsElevated() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Channel is a notification delivery mechanism.
type Channel string

const (
	ChannelRealtime Channel = "realtime"
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelPush     Channel = "push"
	ChannelWebhook  Channel = "webhook"
)

// NotificationMessage is the ephemeral payload handed to delivery channels.
// DedupeKey identifies the underlying transition so racing producers of the
// same transition collapse to a single delivery.
type NotificationMessage struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"type"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Priority       Priority       `json:"priority"`
	Timestamp      time.Time      `json:"timestamp"`
	DeviceID       string         `json:"device_id,omitempty"`
	OrganizationID string         `json:"organization_id,omitempty"`
	DedupeKey      string         `json:"dedupe_key,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// NotificationConfig is the per-organization routing rule for one event
// type. A missing config falls back to the system defaults.
type NotificationConfig struct {
	OrganizationID string    `json:"organization_id,omitempty"`
	Type           EventType `json:"type"`
	Channels       []Channel `json:"channels"`
	Priority       Priority  `json:"priority"`
	Enabled        bool      `json:"enabled"`
}

// AuditSeverity classifies audit events written by this core.
type AuditSeverity string

const (
	AuditSeverityInfo     AuditSeverity = "info"
	AuditSeverityWarning  AuditSeverity = "warning"
	AuditSeverityError    AuditSeverity = "error"
	AuditSeverityCritical AuditSeverity = "critical"
)

// SeverityForPriority maps message priority to audit severity.
func SeverityForPriority(p Priority) AuditSeverity {
	switch p {
	case PriorityCritical:
		return AuditSeverityCritical
	case PriorityHigh:
		return AuditSeverityError
	case PriorityMedium:
		return AuditSeverityWarning
	case PriorityLow:
		return AuditSeverityInfo
	default:
		return AuditSeverityInfo
	}
}

// AuditEvent is the structured record handed to the audit collaborator for
// every presence transition and every notification dispatch attempt.
type AuditEvent struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Severity    AuditSeverity  `json:"severity"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	DeviceID    string         `json:"device_id,omitempty"`
	OrgID       string         `json:"organization_id,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}
