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
	"time"

	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

// Sweeper periodically evicts long-dead records from the registry. A
// record stuck in INACTIVE or ERROR past the eviction TTL is forced to
// OFFLINE, the final transition is persisted, and the record is removed.
// This bounds memory growth from devices that never explicitly disconnect.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	ttl      time.Duration
	logger   logger.Logger
}

// NewSweeper creates a sweeper over the given registry.
func NewSweeper(registry *Registry, config models.PresenceConfig, log logger.Logger) *Sweeper {
	config.Normalize()

	return &Sweeper{
		registry: registry,
		interval: time.Duration(config.SweepInterval),
		ttl:      time.Duration(config.EvictionTTL),
		logger:   log,
	}
}

// Start runs the sweep loop until ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("eviction_ttl", s.ttl).
		Msg("Starting stale-connection sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep scans all records once and evicts the stale ones.
func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := s.registry.now().UTC().Add(-s.ttl)
	evicted := 0

	for _, rec := range s.registry.GetAll() {
		if rec.Status != models.DeviceStatusInactive && rec.Status != models.DeviceStatusError {
			continue
		}

		if rec.LastActivityAt.After(cutoff) {
			continue
		}

		partial := &models.PresenceRecord{
			Metadata: map[string]string{metaCleanupReason: "stale connection evicted"},
		}

		if _, err := s.registry.SetStatus(ctx, rec.DeviceID, models.DeviceStatusOffline, rec.Protocol, partial); err != nil {
			// A device deleted from the durable store can no longer accept
			// transitions; evict the orphan record regardless.
			if !errors.Is(err, db.ErrDeviceNotFound) {
				s.logger.Error().Err(err).
					Str("device_id", rec.DeviceID).
					Msg("Failed to record final offline transition")
			}
		}

		s.registry.Evict(rec.DeviceID)
		evicted++

		s.logger.Info().
			Str("device_id", rec.DeviceID).
			Str("status", string(rec.Status)).
			Time("last_activity_at", rec.LastActivityAt).
			Msg("Evicted stale presence record")
	}

	if evicted > 0 {
		s.logger.Info().Int("evicted", evicted).Msg("Sweep complete")
	}
}
