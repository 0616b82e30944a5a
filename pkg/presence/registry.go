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

package presence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/devicepulse/pkg/bus"
	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

// Metadata keys stamped by the registry's background activities.
const (
	metaInactiveReason = "inactive_reason"
	metaCleanupReason  = "cleanup_reason"
	metaFirstSeen      = "device_first_seen"
)

// deviceEntry serializes all mutation of a single device's record. The
// registry map lock is never held across a signal merge, so signals for
// different devices proceed in parallel.
type deviceEntry struct {
	mu        sync.Mutex
	record    *models.PresenceRecord
	stopHeart context.CancelFunc
}

// Registry is the in-memory connection registry. One instance is owned by
// the process and shared by reference with adapters and the dispatcher.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*deviceEntry

	db          db.Service
	bus         *bus.Bus
	broadcaster StatusBroadcaster
	events      EventPublisher
	logger      logger.Logger
	config      models.PresenceConfig

	ctx context.Context
	wg  sync.WaitGroup

	now func() time.Time
}

var _ Manager = (*Registry)(nil)

// NewRegistry creates the connection registry. broadcaster and events are
// optional; a nil value disables that side effect.
func NewRegistry(
	ctx context.Context,
	config models.PresenceConfig,
	database db.Service,
	eventBus *bus.Bus,
	broadcaster StatusBroadcaster,
	events EventPublisher,
	log logger.Logger,
) *Registry {
	config.Normalize()

	return &Registry{
		entries:     make(map[string]*deviceEntry),
		db:          database,
		bus:         eventBus,
		broadcaster: broadcaster,
		events:      events,
		logger:      log,
		config:      config,
		ctx:         ctx,
		now:         time.Now,
	}
}

// SetStatus merges a status signal into the device's record, applying the
// transition rules, persisting the result, and publishing a status-change
// event when the canonical status actually changed.
func (r *Registry) SetStatus(
	ctx context.Context,
	deviceID string,
	status models.DeviceStatus,
	protocol models.Protocol,
	partial *models.PresenceRecord,
) (*models.PresenceRecord, error) {
	device, err := r.db.GetDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, db.ErrDeviceNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to resolve device %s: %w", deviceID, err)
	}

	entry := r.entry(deviceID)

	entry.mu.Lock()

	now := r.now().UTC()
	prev := entry.record.Clone()
	firstSeen := prev == nil && r.isFirstSeen(ctx, deviceID)

	rec := entry.record
	if rec == nil {
		rec = &models.PresenceRecord{
			DeviceID:         deviceID,
			DeviceIdentifier: device.Identifier,
		}
		entry.record = rec
	}

	r.mergePartial(rec, partial)

	rec.Status = status
	rec.Protocol = protocol
	rec.LastActivityAt = now

	switch {
	case status == models.DeviceStatusOnline && (prev == nil || prev.Status != models.DeviceStatusOnline):
		rec.ConnectedAt = &now
		rec.DisconnectedAt = nil
		rec.DurationSeconds = 0
		rec.SessionID = uuid.New().String()
		r.startHeartbeat(entry, deviceID)
	case status == models.DeviceStatusOnline:
		// Repeated ONLINE keeps ConnectedAt and SessionID; only activity advances.
	case status == models.DeviceStatusOffline:
		rec.DisconnectedAt = &now
		if rec.ConnectedAt != nil {
			rec.DurationSeconds = int64(now.Sub(*rec.ConnectedAt).Seconds())
		}

		r.stopHeartbeat(entry)
	}

	snapshot := rec.Clone()

	// Persisting under the entry lock keeps the durable connection log in
	// per-device arrival order. Write failures leave the audit trail with
	// a gap but never roll back the in-memory state.
	r.persistTransition(ctx, snapshot, firstSeen)

	entry.mu.Unlock()

	if prev == nil || prev.Status != status {
		r.publishTransition(ctx, prev, snapshot, firstSeen)
	}

	return snapshot, nil
}

// UpdateActivity advances LastActivityAt and merges metadata. Activity for
// a device with no current record is dropped without error.
func (r *Registry) UpdateActivity(_ context.Context, deviceID string, metadata map[string]string) {
	r.mu.RLock()
	entry, ok := r.entries[deviceID]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug().Str("device_id", deviceID).Msg("Activity for untracked device dropped")
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.record == nil {
		return
	}

	entry.record.LastActivityAt = r.now().UTC()
	r.mergeMetadata(entry.record, metadata)
}

// Get returns a snapshot of the device's record.
func (r *Registry) Get(deviceID string) (*models.PresenceRecord, bool) {
	r.mu.RLock()
	entry, ok := r.entries[deviceID]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.record == nil {
		return nil, false
	}

	return entry.record.Clone(), true
}

// GetAll returns a point-in-time snapshot of every tracked record.
func (r *Registry) GetAll() []*models.PresenceRecord {
	r.mu.RLock()
	entries := make([]*deviceEntry, 0, len(r.entries))

	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	records := make([]*models.PresenceRecord, 0, len(entries))

	for _, entry := range entries {
		entry.mu.Lock()
		if entry.record != nil {
			records = append(records, entry.record.Clone())
		}
		entry.mu.Unlock()
	}

	return records
}

// CountOnline returns the number of devices currently ONLINE.
func (r *Registry) CountOnline() int {
	count := 0

	for _, rec := range r.GetAll() {
		if rec.Status == models.DeviceStatusOnline {
			count++
		}
	}

	return count
}

// CountByProtocol returns per-protocol record counts.
func (r *Registry) CountByProtocol() map[models.Protocol]int {
	counts := make(map[models.Protocol]int)

	for _, rec := range r.GetAll() {
		counts[rec.Protocol]++
	}

	return counts
}

// Evict removes the device's record and cancels its heartbeat. Eviction is
// a cache removal, not a domain deletion; the durable device entity is
// untouched.
func (r *Registry) Evict(deviceID string) {
	r.mu.Lock()
	entry, ok := r.entries[deviceID]
	delete(r.entries, deviceID)
	r.mu.Unlock()

	if !ok {
		return
	}

	entry.mu.Lock()
	r.stopHeartbeat(entry)
	entry.record = nil
	entry.mu.Unlock()
}

// Close cancels all heartbeat monitors and waits for them to exit.
func (r *Registry) Close() {
	r.mu.Lock()

	for _, entry := range r.entries {
		entry.mu.Lock()
		r.stopHeartbeat(entry)
		entry.mu.Unlock()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Registry) entry(deviceID string) *deviceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[deviceID]
	if !ok {
		entry = &deviceEntry{}
		r.entries[deviceID] = entry
	}

	return entry
}

// isFirstSeen reports whether the durable store has never logged a
// connection for this device. Lookup failures count as already seen.
func (r *Registry) isFirstSeen(ctx context.Context, deviceID string) bool {
	_, err := r.db.GetLatestConnectionLog(ctx, deviceID)
	if err == nil {
		return false
	}

	if errors.Is(err, db.ErrConnectionLogNotFound) {
		return true
	}

	r.logger.Debug().Err(err).Str("device_id", deviceID).Msg("First-seen lookup failed")

	return false
}

func (r *Registry) mergePartial(rec *models.PresenceRecord, partial *models.PresenceRecord) {
	if partial == nil {
		return
	}

	if partial.Address != "" {
		rec.Address = partial.Address
	}

	if partial.Port != 0 {
		rec.Port = partial.Port
	}

	if partial.ClientHandle != "" {
		rec.ClientHandle = partial.ClientHandle
	}

	r.mergeMetadata(rec, partial.Metadata)
}

func (r *Registry) mergeMetadata(rec *models.PresenceRecord, metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}

	if rec.Metadata == nil {
		rec.Metadata = make(map[string]string, len(metadata))
	}

	for k, v := range metadata {
		rec.Metadata[k] = v
	}
}

func (r *Registry) persistTransition(ctx context.Context, snapshot *models.PresenceRecord, firstSeen bool) {
	entry := &models.ConnectionLog{
		DeviceID:        snapshot.DeviceID,
		Status:          snapshot.Status,
		Protocol:        snapshot.Protocol,
		ClientHandle:    snapshot.ClientHandle,
		Address:         snapshot.Address,
		Port:            snapshot.Port,
		ConnectedAt:     snapshot.ConnectedAt,
		DisconnectedAt:  snapshot.DisconnectedAt,
		DurationSeconds: snapshot.DurationSeconds,
		SessionID:       snapshot.SessionID,
		Metadata:        snapshot.Metadata,
		Timestamp:       snapshot.LastActivityAt,
	}

	if firstSeen {
		if entry.Metadata == nil {
			entry.Metadata = make(map[string]string, 1)
		} else {
			md := make(map[string]string, len(entry.Metadata)+1)
			for k, v := range entry.Metadata {
				md[k] = v
			}
			entry.Metadata = md
		}

		entry.Metadata[metaFirstSeen] = "true"
	}

	if err := r.db.StoreConnectionLog(ctx, entry); err != nil {
		r.logger.Error().Err(err).
			Str("device_id", snapshot.DeviceID).
			Str("status", string(snapshot.Status)).
			Msg("Failed to store connection log")
	}

	var lastOnlineAt *time.Time

	if snapshot.Status == models.DeviceStatusOnline {
		t := snapshot.LastActivityAt
		lastOnlineAt = &t
	}

	if err := r.db.UpdateDeviceStatus(ctx, snapshot.DeviceID, snapshot.Status, lastOnlineAt); err != nil {
		r.logger.Error().Err(err).
			Str("device_id", snapshot.DeviceID).
			Msg("Failed to update durable device status")
	}

	audit := &models.AuditEvent{
		ID:          uuid.New().String(),
		Timestamp:   snapshot.LastActivityAt,
		Severity:    severityForStatus(snapshot.Status),
		Category:    "device_presence",
		Description: fmt.Sprintf("Device %s transitioned to %s via %s", snapshot.DeviceID, snapshot.Status, snapshot.Protocol),
		DeviceID:    snapshot.DeviceID,
		Details: map[string]any{
			"status":     snapshot.Status,
			"protocol":   snapshot.Protocol,
			"session_id": snapshot.SessionID,
		},
	}

	if err := r.db.StoreAuditEvent(ctx, audit); err != nil {
		r.logger.Error().Err(err).
			Str("device_id", snapshot.DeviceID).
			Msg("Failed to store audit event")
	}
}

func (r *Registry) publishTransition(ctx context.Context, prev, snapshot *models.PresenceRecord, firstSeen bool) {
	event := &models.PresenceEvent{
		DeviceID:      snapshot.DeviceID,
		CurrentStatus: snapshot.Status,
		Record:        snapshot,
		Previous:      prev,
		Timestamp:     snapshot.LastActivityAt,
	}

	if prev != nil {
		event.PreviousStatus = prev.Status
	}

	if r.bus != nil {
		r.bus.Publish(bus.EventStatusChange, event)
		r.bus.Publish(string(models.EventTypeForStatus(snapshot.Status)), event)
	}

	if r.broadcaster != nil {
		scope := "device:" + snapshot.DeviceID

		if err := r.broadcaster.Broadcast(ctx, scope, bus.EventStatusChange, snapshot); err != nil {
			r.logger.Warn().Err(err).
				Str("device_id", snapshot.DeviceID).
				Msg("Failed to broadcast status change")
		}
	}

	if r.events != nil {
		data := models.DevicePresenceEventData{
			DeviceID:       snapshot.DeviceID,
			CurrentStatus:  snapshot.Status,
			Protocol:       snapshot.Protocol,
			SessionID:      snapshot.SessionID,
			Timestamp:      snapshot.LastActivityAt,
			LastActivityAt: snapshot.LastActivityAt,
			RemoteAddr:     snapshot.Address,
			Reason:         transitionReason(snapshot),
			FirstSeen:      firstSeen,
		}

		if prev != nil {
			data.PreviousStatus = prev.Status
		}

		if err := r.events.PublishPresenceEvent(ctx, data); err != nil {
			r.logger.Warn().Err(err).
				Str("device_id", snapshot.DeviceID).
				Msg("Failed to publish presence event")
		}
	}
}

func transitionReason(rec *models.PresenceRecord) string {
	if reason, ok := rec.Metadata[metaInactiveReason]; ok && rec.Status == models.DeviceStatusInactive {
		return reason
	}

	if reason, ok := rec.Metadata[metaCleanupReason]; ok && rec.Status == models.DeviceStatusOffline {
		return reason
	}

	return ""
}

func severityForStatus(status models.DeviceStatus) models.AuditSeverity {
	switch status {
	case models.DeviceStatusError:
		return models.AuditSeverityError
	case models.DeviceStatusOffline, models.DeviceStatusInactive:
		return models.AuditSeverityWarning
	default:
		return models.AuditSeverityInfo
	}
}
