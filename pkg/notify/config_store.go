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
	"errors"
	"sync"
	"time"

	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

// ConfigStore resolves per-organization notification routing with a
// system-default fallback. Configs are read-mostly and administratively
// mutated outside this core, so a short TTL cache sits in front of the
// durable store.
type ConfigStore struct {
	db     db.Service
	logger logger.Logger
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cachedConfig

	now func() time.Time
}

type cachedConfig struct {
	config  *models.NotificationConfig
	expires time.Time
}

// NewConfigStore creates the routing config resolver.
func NewConfigStore(config models.NotifyConfig, database db.Service, log logger.Logger) *ConfigStore {
	config.Normalize()

	return &ConfigStore{
		db:     database,
		logger: log,
		ttl:    time.Duration(config.ConfigCacheTTL),
		cache:  make(map[string]cachedConfig),
		now:    time.Now,
	}
}

// Resolve returns the organization's config for the event type, or the
// system default when none is configured. Lookup failures also fall back
// to the default so notification routing keeps working through a store
// outage.
func (s *ConfigStore) Resolve(ctx context.Context, orgID string, eventType models.EventType) *models.NotificationConfig {
	key := orgID + ":" + string(eventType)

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok && cached.expires.After(s.now()) {
		s.mu.Unlock()
		return cached.config
	}
	s.mu.Unlock()

	config, err := s.db.GetNotificationConfig(ctx, orgID, eventType)
	if err != nil {
		if !errors.Is(err, db.ErrNotificationConfigNotFound) {
			s.logger.Error().Err(err).
				Str("organization_id", orgID).
				Str("event_type", string(eventType)).
				Msg("Notification config lookup failed, using system default")
		}

		config = systemDefault(eventType)
	}

	s.mu.Lock()
	s.cache[key] = cachedConfig{config: config, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return config
}

// systemDefault is the fallback routing applied when an organization has
// no config for the event type.
func systemDefault(eventType models.EventType) *models.NotificationConfig {
	config := &models.NotificationConfig{
		Type:     eventType,
		Channels: []models.Channel{models.ChannelRealtime},
		Priority: models.PriorityMedium,
		Enabled:  true,
	}

	switch eventType {
	case models.EventDeviceOnline:
		config.Priority = models.PriorityLow
	case models.EventDeviceError:
		config.Channels = []models.Channel{models.ChannelRealtime, models.ChannelWebhook}
		config.Priority = models.PriorityHigh
	}

	return config
}
