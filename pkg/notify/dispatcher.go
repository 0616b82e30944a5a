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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/devicepulse/pkg/bus"
	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

// Dispatcher subscribes to the status-change bus and fans notification
// messages out across the channels configured for the owning organization.
// Channel failures are independent and never reach the registry; every
// attempt lands in the audit log.
type Dispatcher struct {
	db      db.Service
	store   *ConfigStore
	senders map[models.Channel]Sender
	system  Sender
	logger  logger.Logger
	timeout time.Duration

	mu     sync.Mutex
	recent map[string]time.Time
	window time.Duration

	now func() time.Time
}

// NewDispatcher creates a dispatcher. system receives every HIGH/CRITICAL
// message regardless of the organization's channel list; nil disables the
// system-wide path.
func NewDispatcher(
	config models.NotifyConfig,
	database db.Service,
	store *ConfigStore,
	senders []Sender,
	system Sender,
	log logger.Logger,
) *Dispatcher {
	config.Normalize()

	byChannel := make(map[models.Channel]Sender, len(senders))
	for _, sender := range senders {
		byChannel[sender.Channel()] = sender
	}

	return &Dispatcher{
		db:      database,
		store:   store,
		senders: byChannel,
		system:  system,
		logger:  log,
		timeout: time.Duration(config.ChannelTimeout),
		recent:  make(map[string]time.Time),
		window:  time.Duration(config.DedupeWindow),
		now:     time.Now,
	}
}

// Attach subscribes the dispatcher to the bus and returns the unsubscribe
// function.
func (d *Dispatcher) Attach(eventBus *bus.Bus) func() {
	return eventBus.Subscribe(bus.EventStatusChange, "notification-dispatcher", d.OnStatusChange)
}

// OnStatusChange resolves routing for one presence transition and delivers
// the resulting message. Missing or disabled configuration means no
// delivery and no error.
func (d *Dispatcher) OnStatusChange(ctx context.Context, event *models.PresenceEvent) {
	device, err := d.db.GetDeviceByID(ctx, event.DeviceID)
	if err != nil {
		d.logger.Warn().Err(err).
			Str("device_id", event.DeviceID).
			Msg("Cannot resolve device for notification, skipping")

		return
	}

	eventType := models.EventTypeForStatus(event.CurrentStatus)

	config := d.store.Resolve(ctx, device.OrganizationID, eventType)
	if config == nil || !config.Enabled {
		d.logger.Debug().
			Str("device_id", event.DeviceID).
			Str("event_type", string(eventType)).
			Msg("Notifications disabled for event type")

		return
	}

	msg := BuildMessage(device, event, config)

	if d.alreadyDispatched(msg.DedupeKey) {
		d.logger.Debug().
			Str("dedupe_key", msg.DedupeKey).
			Msg("Duplicate transition suppressed")

		return
	}

	for _, channel := range config.Channels {
		d.deliver(ctx, channel, msg)
	}

	if msg.Priority.IsElevated() && d.system != nil {
		d.deliverVia(ctx, d.system, "system", msg)
	}
}

// deliver sends over one configured channel. A channel with no registered
// sender is logged and skipped.
func (d *Dispatcher) deliver(ctx context.Context, channel models.Channel, msg *models.NotificationMessage) {
	sender, ok := d.senders[channel]
	if !ok {
		d.logger.Warn().
			Str("channel", string(channel)).
			Str("message_id", msg.ID).
			Msg("No sender registered for channel")

		return
	}

	d.deliverVia(ctx, sender, string(channel), msg)
}

func (d *Dispatcher) deliverVia(ctx context.Context, sender Sender, label string, msg *models.NotificationMessage) {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	err := sender.Send(sendCtx, msg)

	cancel()

	if err != nil {
		d.logger.Error().Err(err).
			Str("channel", label).
			Str("message_id", msg.ID).
			Str("device_id", msg.DeviceID).
			Msg("Notification delivery failed")
	} else {
		d.logger.Debug().
			Str("channel", label).
			Str("message_id", msg.ID).
			Msg("Notification delivered")
	}

	d.audit(ctx, label, msg, err)
}

// alreadyDispatched records the dedupe key and reports whether a delivery
// for the same transition happened within the window.
func (d *Dispatcher) alreadyDispatched(key string) bool {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for k, expires := range d.recent {
		if expires.Before(now) {
			delete(d.recent, k)
		}
	}

	if _, ok := d.recent[key]; ok {
		return true
	}

	d.recent[key] = now.Add(d.window)

	return false
}

func (d *Dispatcher) audit(ctx context.Context, channel string, msg *models.NotificationMessage, deliveryErr error) {
	details := map[string]any{
		"channel":    channel,
		"message_id": msg.ID,
		"type":       msg.Type,
		"priority":   msg.Priority,
		"success":    deliveryErr == nil,
	}

	if deliveryErr != nil {
		details["error"] = deliveryErr.Error()
	}

	event := &models.AuditEvent{
		ID:          uuid.New().String(),
		Timestamp:   d.now().UTC(),
		Severity:    models.SeverityForPriority(msg.Priority),
		Category:    "notification_dispatch",
		Description: fmt.Sprintf("Notification %q dispatched via %s", msg.Title, channel),
		DeviceID:    msg.DeviceID,
		OrgID:       msg.OrganizationID,
		Details:     details,
	}

	if err := d.db.StoreAuditEvent(ctx, event); err != nil {
		d.logger.Error().Err(err).
			Str("message_id", msg.ID).
			Msg("Failed to audit notification dispatch")
	}
}
