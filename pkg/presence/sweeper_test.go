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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

func TestSweepEvictsLongDeadRecords(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})
	f.expectKnownDevice("dev-stale")
	f.expectKnownDevice("dev-fresh")

	ctx := context.Background()

	_, err := f.registry.SetStatus(ctx, "dev-stale", models.DeviceStatusInactive, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	// The stale record crosses the eviction TTL; the fresh one does not.
	f.clock.Advance(25 * time.Hour)

	_, err = f.registry.SetStatus(ctx, "dev-fresh", models.DeviceStatusInactive, models.ProtocolTCP, nil)
	require.NoError(t, err)

	sweeper := NewSweeper(f.registry, models.PresenceConfig{}, logger.NewTestLogger())
	sweeper.sweep(ctx)

	_, ok := f.registry.Get("dev-stale")
	assert.False(t, ok, "stale record must be evicted")

	rec, ok := f.registry.Get("dev-fresh")
	require.True(t, ok, "recent record must survive the sweep")
	assert.Equal(t, models.DeviceStatusInactive, rec.Status)
}

func TestSweepPersistsFinalOfflineTransition(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})

	f.db.EXPECT().GetDeviceByID(gomock.Any(), "dev-stale").
		Return(&models.Device{DeviceID: "dev-stale", Identifier: "dev-stale"}, nil).
		AnyTimes()
	f.db.EXPECT().GetLatestConnectionLog(gomock.Any(), "dev-stale").
		Return(&models.ConnectionLog{DeviceID: "dev-stale"}, nil).
		AnyTimes()
	f.db.EXPECT().UpdateDeviceStatus(gomock.Any(), "dev-stale", gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().StoreAuditEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	var statuses []models.DeviceStatus

	var lastLog *models.ConnectionLog

	f.db.EXPECT().StoreConnectionLog(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.ConnectionLog) error {
			statuses = append(statuses, entry.Status)
			lastLog = entry

			return nil
		}).
		AnyTimes()

	ctx := context.Background()

	_, err := f.registry.SetStatus(ctx, "dev-stale", models.DeviceStatusError, models.ProtocolUDP, nil)
	require.NoError(t, err)

	f.clock.Advance(25 * time.Hour)

	sweeper := NewSweeper(f.registry, models.PresenceConfig{}, logger.NewTestLogger())
	sweeper.sweep(ctx)

	require.Equal(t, []models.DeviceStatus{models.DeviceStatusError, models.DeviceStatusOffline}, statuses)
	require.NotNil(t, lastLog)
	assert.Equal(t, "stale connection evicted", lastLog.Metadata[metaCleanupReason])
	assert.Empty(t, f.registry.GetAll())
}

func TestSweepEvictsOrphanedRecords(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})

	// The device exists for the initial signal and vanishes from the
	// durable store before the sweep.
	f.db.EXPECT().GetDeviceByID(gomock.Any(), "dev-1").
		Return(&models.Device{DeviceID: "dev-1", Identifier: "dev-1"}, nil).
		Times(1)
	f.db.EXPECT().GetDeviceByID(gomock.Any(), "dev-1").
		Return(nil, db.ErrDeviceNotFound).
		AnyTimes()
	f.db.EXPECT().GetLatestConnectionLog(gomock.Any(), "dev-1").
		Return(&models.ConnectionLog{DeviceID: "dev-1"}, nil).
		AnyTimes()
	f.db.EXPECT().StoreConnectionLog(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().UpdateDeviceStatus(gomock.Any(), "dev-1", gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().StoreAuditEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ctx := context.Background()

	_, err := f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusInactive, models.ProtocolHTTP, nil)
	require.NoError(t, err)

	f.clock.Advance(25 * time.Hour)

	sweeper := NewSweeper(f.registry, models.PresenceConfig{}, logger.NewTestLogger())
	sweeper.sweep(ctx)

	assert.Empty(t, f.registry.GetAll())
}
