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

package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/devicepulse/pkg/models"
)

// GetNotificationConfig retrieves the routing rule for one organization and
// event type. Returns ErrNotificationConfigNotFound when the organization
// has none configured; callers fall back to system defaults.
func (db *DB) GetNotificationConfig(ctx context.Context, orgID string, eventType models.EventType) (*models.NotificationConfig, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrOrganizationIDMissing
	}

	if !db.configured() {
		return nil, ErrCNPGUnavailable
	}

	row := db.pool.QueryRow(ctx, `
        SELECT organization_id, event_type, channels, priority, enabled
        FROM notification_configs
        WHERE organization_id = $1 AND event_type = $2`, orgID, string(eventType))

	cfg, err := scanNotificationConfig(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationConfigNotFound
		}

		return nil, err
	}

	return cfg, nil
}

// ListNotificationConfigs retrieves every routing rule for an organization.
func (db *DB) ListNotificationConfigs(ctx context.Context, orgID string) ([]models.NotificationConfig, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrOrganizationIDMissing
	}

	if !db.configured() {
		return nil, ErrCNPGUnavailable
	}

	rows, err := db.pool.Query(ctx, `
        SELECT organization_id, event_type, channels, priority, enabled
        FROM notification_configs
        WHERE organization_id = $1
        ORDER BY event_type`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification configs: %w", err)
	}
	defer rows.Close()

	var configs []models.NotificationConfig

	for rows.Next() {
		cfg, err := scanNotificationConfig(rows)
		if err != nil {
			return nil, err
		}

		configs = append(configs, *cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notification configs: %w", err)
	}

	return configs, nil
}

func scanNotificationConfig(row pgx.Row) (*models.NotificationConfig, error) {
	var (
		cfg      models.NotificationConfig
		channels []string
	)

	err := row.Scan(
		&cfg.OrganizationID,
		&cfg.Type,
		&channels,
		&cfg.Priority,
		&cfg.Enabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}

		return nil, fmt.Errorf("failed to scan notification config: %w", err)
	}

	cfg.Channels = make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		cfg.Channels = append(cfg.Channels, models.Channel(ch))
	}

	return &cfg, nil
}
