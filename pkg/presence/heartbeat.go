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
	"time"

	"github.com/carverauto/devicepulse/pkg/models"
)

// startHeartbeat (re)starts the device's liveness monitor. Called with the
// entry lock held.
func (r *Registry) startHeartbeat(entry *deviceEntry, deviceID string) {
	r.stopHeartbeat(entry)

	hctx, cancel := context.WithCancel(r.ctx)
	entry.stopHeart = cancel

	r.wg.Add(1)

	go r.runHeartbeat(hctx, deviceID)
}

// stopHeartbeat cancels the device's monitor if one is running. Called with
// the entry lock held.
func (r *Registry) stopHeartbeat(entry *deviceEntry) {
	if entry.stopHeart != nil {
		entry.stopHeart()
		entry.stopHeart = nil
	}
}

// runHeartbeat watches a single ONLINE device and declares it INACTIVE when
// no activity signal arrives within the inactivity threshold. The monitor
// fires at most once per ONLINE session; a later explicit ONLINE signal
// starts a fresh monitor.
func (r *Registry) runHeartbeat(ctx context.Context, deviceID string) {
	defer r.wg.Done()

	interval := time.Duration(r.config.HeartbeatInterval)
	threshold := time.Duration(r.config.InactivityThreshold)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rec, ok := r.Get(deviceID)
			if !ok || rec.Status != models.DeviceStatusOnline {
				return
			}

			if r.now().UTC().Sub(rec.LastActivityAt) < threshold {
				continue
			}

			r.logger.Info().
				Str("device_id", deviceID).
				Time("last_activity_at", rec.LastActivityAt).
				Msg("Heartbeat timeout, marking device inactive")

			partial := &models.PresenceRecord{
				Metadata: map[string]string{metaInactiveReason: "heartbeat timeout"},
			}

			if _, err := r.SetStatus(ctx, deviceID, models.DeviceStatusInactive, rec.Protocol, partial); err != nil {
				r.logger.Error().Err(err).
					Str("device_id", deviceID).
					Msg("Failed to mark device inactive")
			}

			return
		}
	}
}
