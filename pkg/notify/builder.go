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

package notify

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/carverauto/devicepulse/pkg/models"
)

// BuildMessage derives a notification message from a presence transition.
// Title and content are deterministic functions of the device and the
// transition; the dedupe key identifies the underlying transition so
// racing producers collapse to one delivery.
func BuildMessage(device *models.Device, event *models.PresenceEvent, config *models.NotificationConfig) *models.NotificationMessage {
	name := device.Name
	if name == "" {
		name = device.Identifier
	}

	title := fmt.Sprintf("Device %s %s", name, event.CurrentStatus)

	content := fmt.Sprintf("Device %s (%s) is now %s", name, device.DeviceID, event.CurrentStatus)
	if event.PreviousStatus != "" {
		content = fmt.Sprintf("Device %s (%s) went from %s to %s", name, device.DeviceID, event.PreviousStatus, event.CurrentStatus)
	}

	msg := &models.NotificationMessage{
		ID:             uuid.New().String(),
		Type:           models.EventTypeForStatus(event.CurrentStatus),
		Title:          title,
		Content:        content,
		Priority:       config.Priority,
		Timestamp:      event.Timestamp,
		DeviceID:       device.DeviceID,
		OrganizationID: device.OrganizationID,
		DedupeKey:      dedupeKey(event),
		Data: map[string]any{
			"previous_status": event.PreviousStatus,
			"current_status":  event.CurrentStatus,
		},
	}

	if event.Record != nil {
		msg.Data["protocol"] = event.Record.Protocol
		msg.Data["session_id"] = event.Record.SessionID

		if reason, ok := event.Record.Metadata["inactive_reason"]; ok {
			msg.Data["reason"] = reason
		}
	}

	return msg
}

// dedupeKey is stable for a given transition of a given session, so the
// same transition reported twice by racing adapters deduplicates while
// distinct sessions never collide.
func dedupeKey(event *models.PresenceEvent) string {
	sessionID := ""
	if event.Record != nil {
		sessionID = event.Record.SessionID
	}

	return fmt.Sprintf("%s:%s:%s", event.DeviceID, event.CurrentStatus, sessionID)
}
