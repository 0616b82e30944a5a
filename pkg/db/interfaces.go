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

// Package db persists presence transitions and notification routing state
// to the CNPG-backed durable store.
package db

import (
	"context"
	"time"

	"github.com/carverauto/devicepulse/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/devicepulse/pkg/db Service

// Service represents all durable-store operations used by the presence core.
type Service interface {
	Close() error

	// Device operations.

	GetDeviceByID(ctx context.Context, deviceID string) (*models.Device, error)
	GetDeviceByIdentifier(ctx context.Context, identifier string) (*models.Device, error)
	UpdateDeviceStatus(ctx context.Context, deviceID string, status models.DeviceStatus, lastOnlineAt *time.Time) error

	// Connection log operations.

	StoreConnectionLog(ctx context.Context, entry *models.ConnectionLog) error
	GetConnectionHistory(ctx context.Context, deviceID string, limit int) ([]models.ConnectionLog, error)
	GetLatestConnectionLog(ctx context.Context, deviceID string) (*models.ConnectionLog, error)

	// Notification config operations.

	GetNotificationConfig(ctx context.Context, orgID string, eventType models.EventType) (*models.NotificationConfig, error)
	ListNotificationConfigs(ctx context.Context, orgID string) ([]models.NotificationConfig, error)

	// Audit operations.

	StoreAuditEvent(ctx context.Context, event *models.AuditEvent) error
}
