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

const connectionLogColumns = `device_id, status, protocol, client_handle, address, port,
        connected_at, disconnected_at, duration_seconds, session_id, metadata, timestamp`

// StoreConnectionLog appends one transition row to the connection log.
func (db *DB) StoreConnectionLog(ctx context.Context, entry *models.ConnectionLog) error {
	if entry == nil {
		return ErrConnectionLogNil
	}

	if strings.TrimSpace(entry.DeviceID) == "" {
		return ErrDeviceIDRequired
	}

	if !db.configured() {
		return ErrCNPGUnavailable
	}

	metadata, err := marshalMapToJSON(entry.Metadata)
	if err != nil {
		return err
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = db.pool.Exec(ctx, `
        INSERT INTO connection_logs (`+connectionLogColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.DeviceID,
		string(entry.Status),
		string(entry.Protocol),
		nullableString(entry.ClientHandle),
		nullableString(entry.Address),
		entry.Port,
		nullableTime(entry.ConnectedAt),
		nullableTime(entry.DisconnectedAt),
		entry.DurationSeconds,
		nullableString(entry.SessionID),
		metadata,
		ts.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert connection log: %w", err)
	}

	return nil
}

// GetConnectionHistory retrieves recent transitions for a device, newest
// first, bounded by limit.
func (db *DB) GetConnectionHistory(ctx context.Context, deviceID string, limit int) ([]models.ConnectionLog, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, ErrDeviceIDRequired
	}

	if !db.configured() {
		return nil, ErrCNPGUnavailable
	}

	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx, `
        SELECT `+connectionLogColumns+`
        FROM connection_logs
        WHERE device_id = $1
        ORDER BY timestamp DESC
        LIMIT $2`, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection history: %w", err)
	}
	defer rows.Close()

	var history []models.ConnectionLog

	for rows.Next() {
		entry, err := scanConnectionLog(rows)
		if err != nil {
			return nil, err
		}

		history = append(history, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read connection history: %w", err)
	}

	return history, nil
}

// GetLatestConnectionLog retrieves the most recent transition for a device.
func (db *DB) GetLatestConnectionLog(ctx context.Context, deviceID string) (*models.ConnectionLog, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, ErrDeviceIDRequired
	}

	if !db.configured() {
		return nil, ErrCNPGUnavailable
	}

	row := db.pool.QueryRow(ctx, `
        SELECT `+connectionLogColumns+`
        FROM connection_logs
        WHERE device_id = $1
        ORDER BY timestamp DESC
        LIMIT 1`, deviceID)

	entry, err := scanConnectionLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConnectionLogNotFound
		}

		return nil, err
	}

	return entry, nil
}

func scanConnectionLog(row pgx.Row) (*models.ConnectionLog, error) {
	var (
		entry        models.ConnectionLog
		clientHandle *string
		address      *string
		sessionID    *string
		metadata     []byte
	)

	err := row.Scan(
		&entry.DeviceID,
		&entry.Status,
		&entry.Protocol,
		&clientHandle,
		&address,
		&entry.Port,
		&entry.ConnectedAt,
		&entry.DisconnectedAt,
		&entry.DurationSeconds,
		&sessionID,
		&metadata,
		&entry.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}

		return nil, fmt.Errorf("failed to scan connection log: %w", err)
	}

	if clientHandle != nil {
		entry.ClientHandle = *clientHandle
	}

	if address != nil {
		entry.Address = *address
	}

	if sessionID != nil {
		entry.SessionID = *sessionID
	}

	meta, err := unmarshalJSONToMap(metadata)
	if err != nil {
		return nil, err
	}

	entry.Metadata = meta

	return &entry, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func nullableTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	utc := t.UTC()

	return &utc
}
