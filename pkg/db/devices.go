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
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/devicepulse/pkg/models"
)

const deviceColumns = `device_id, identifier, organization_id, name, status, last_online_at`

// GetDeviceByID retrieves a durable device record by its primary ID.
func (db *DB) GetDeviceByID(ctx context.Context, deviceID string) (*models.Device, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, ErrDeviceIDRequired
	}

	if !db.configured() {
		return nil, ErrCNPGUnavailable
	}

	row := db.pool.QueryRow(ctx, `
        SELECT `+deviceColumns+`
        FROM devices
        WHERE device_id = $1`, deviceID)

	return scanDevice(row)
}

// GetDeviceByIdentifier retrieves a durable device record by its stable
// external identifier (the handle protocol listeners know it by).
func (db *DB) GetDeviceByIdentifier(ctx context.Context, identifier string) (*models.Device, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, ErrIdentifierRequired
	}

	if !db.configured() {
		return nil, ErrCNPGUnavailable
	}

	row := db.pool.QueryRow(ctx, `
        SELECT `+deviceColumns+`
        FROM devices
        WHERE identifier = $1`, identifier)

	return scanDevice(row)
}

// UpdateDeviceStatus writes the durable status field, and last_online_at
// when the device came online.
func (db *DB) UpdateDeviceStatus(ctx context.Context, deviceID string, status models.DeviceStatus, lastOnlineAt *time.Time) error {
	if strings.TrimSpace(deviceID) == "" {
		return ErrDeviceIDRequired
	}

	if !db.configured() {
		return ErrCNPGUnavailable
	}

	var err error

	if lastOnlineAt != nil {
		_, err = db.pool.Exec(ctx, `
            UPDATE devices
            SET status = $2, last_online_at = $3, updated_at = now()
            WHERE device_id = $1`, deviceID, string(status), lastOnlineAt.UTC())
	} else {
		_, err = db.pool.Exec(ctx, `
            UPDATE devices
            SET status = $2, updated_at = now()
            WHERE device_id = $1`, deviceID, string(status))
	}

	if err != nil {
		return fmt.Errorf("failed to update device status: %w", err)
	}

	return nil
}

func scanDevice(row pgx.Row) (*models.Device, error) {
	var (
		device       models.Device
		name         *string
		lastOnlineAt *time.Time
	)

	err := row.Scan(
		&device.DeviceID,
		&device.Identifier,
		&device.OrganizationID,
		&name,
		&device.Status,
		&lastOnlineAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}

		return nil, fmt.Errorf("failed to scan device: %w", err)
	}

	if name != nil {
		device.Name = *name
	}

	device.LastOnlineAt = lastOnlineAt

	return &device, nil
}
