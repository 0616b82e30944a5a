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
	"fmt"
	"time"

	"github.com/carverauto/devicepulse/pkg/models"
)

// StoreAuditEvent appends one structured audit row.
func (db *DB) StoreAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	if event == nil {
		return ErrAuditEventNil
	}

	if !db.configured() {
		return ErrCNPGUnavailable
	}

	details, err := marshalAnyMapToJSON(event.Details)
	if err != nil {
		return err
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = db.pool.Exec(ctx, `
        INSERT INTO audit_events (id, timestamp, severity, category, description, device_id, organization_id, details)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID,
		ts.UTC(),
		string(event.Severity),
		event.Category,
		event.Description,
		nullableString(event.DeviceID),
		nullableString(event.OrgID),
		details,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}
