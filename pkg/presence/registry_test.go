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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicepulse/pkg/bus"
	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type registryFixture struct {
	registry *Registry
	db       *db.MockService
	bus      *bus.Bus
	clock    *testClock
}

func newRegistryFixture(t *testing.T, config models.PresenceConfig) *registryFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	eventBus := bus.New(ctx, logger.NewTestLogger())
	t.Cleanup(eventBus.Close)

	registry := NewRegistry(ctx, config, mockDB, eventBus, nil, nil, logger.NewTestLogger())
	t.Cleanup(registry.Close)

	clock := newTestClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	registry.now = clock.Now

	return &registryFixture{
		registry: registry,
		db:       mockDB,
		bus:      eventBus,
		clock:    clock,
	}
}

// expectKnownDevice wires the standard durable-store expectations for a
// device the store knows about.
func (f *registryFixture) expectKnownDevice(deviceID string) {
	f.db.EXPECT().GetDeviceByID(gomock.Any(), deviceID).
		Return(&models.Device{DeviceID: deviceID, Identifier: deviceID}, nil).
		AnyTimes()
	f.db.EXPECT().GetLatestConnectionLog(gomock.Any(), deviceID).
		Return(&models.ConnectionLog{DeviceID: deviceID}, nil).
		AnyTimes()
	f.db.EXPECT().StoreConnectionLog(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().UpdateDeviceStatus(gomock.Any(), deviceID, gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.db.EXPECT().StoreAuditEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestSetStatusRepeatedOnlineIsIdempotent(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})
	f.expectKnownDevice("dev-1")

	first, err := f.registry.SetStatus(context.Background(), "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionID)
	require.NotNil(t, first.ConnectedAt)

	f.clock.Advance(30 * time.Second)

	second, err := f.registry.SetStatus(context.Background(), "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, *first.ConnectedAt, *second.ConnectedAt)
	assert.True(t, second.LastActivityAt.After(first.LastActivityAt))
}

func TestSetStatusOfflineComputesDuration(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})
	f.expectKnownDevice("dev-1")

	online, err := f.registry.SetStatus(context.Background(), "dev-1", models.DeviceStatusOnline, models.ProtocolTCP, nil)
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)

	offline, err := f.registry.SetStatus(context.Background(), "dev-1", models.DeviceStatusOffline, models.ProtocolTCP, nil)
	require.NoError(t, err)

	require.NotNil(t, offline.DisconnectedAt)
	assert.Equal(t, int64(600), offline.DurationSeconds)
	assert.Equal(t, offline.DisconnectedAt.Sub(*online.ConnectedAt), 10*time.Minute)
}

func TestSetStatusPublishesOnlyOnChange(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})
	f.expectKnownDevice("dev-1")

	var published atomic.Int32

	unsubscribe := f.bus.Subscribe(bus.EventStatusChange, "test", func(_ context.Context, _ *models.PresenceEvent) {
		published.Add(1)
	})
	defer unsubscribe()

	ctx := context.Background()

	_, err := f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	_, err = f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	_, err = f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOffline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return published.Load() == 2
	}, time.Second, 10*time.Millisecond, "expected one event per actual status change")

	// The repeated ONLINE signal must never surface later.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), published.Load())
}

func TestSetStatusUnknownDeviceRecordsNothing(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})

	f.db.EXPECT().GetDeviceByID(gomock.Any(), "ghost").Return(nil, db.ErrDeviceNotFound)

	_, err := f.registry.SetStatus(context.Background(), "ghost", models.DeviceStatusOnline, models.ProtocolHTTP, nil)
	require.ErrorIs(t, err, db.ErrDeviceNotFound)

	_, ok := f.registry.Get("ghost")
	assert.False(t, ok)
	assert.Empty(t, f.registry.GetAll())
}

func TestUpdateActivityWithoutRecordIsNoop(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})

	f.registry.UpdateActivity(context.Background(), "dev-1", map[string]string{"k": "v"})

	_, ok := f.registry.Get("dev-1")
	assert.False(t, ok)
}

func TestUpdateActivityAdvancesClockAndMergesMetadata(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})
	f.expectKnownDevice("dev-1")

	online, err := f.registry.SetStatus(context.Background(), "dev-1", models.DeviceStatusOnline, models.ProtocolUDP, nil)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	f.registry.UpdateActivity(context.Background(), "dev-1", map[string]string{"last_message": "ping"})

	rec, ok := f.registry.Get("dev-1")
	require.True(t, ok)
	assert.Equal(t, models.DeviceStatusOnline, rec.Status)
	assert.True(t, rec.LastActivityAt.After(online.LastActivityAt))
	assert.Equal(t, "ping", rec.Metadata["last_message"])
	assert.Equal(t, online.SessionID, rec.SessionID)
}

func TestFirstSeenMarkerOnFirstConnectionLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry := NewRegistry(ctx, models.PresenceConfig{}, mockDB, nil, nil, nil, logger.NewTestLogger())
	t.Cleanup(registry.Close)

	mockDB.EXPECT().GetDeviceByID(gomock.Any(), "dev-new").
		Return(&models.Device{DeviceID: "dev-new", Identifier: "dev-new"}, nil)
	mockDB.EXPECT().GetLatestConnectionLog(gomock.Any(), "dev-new").
		Return(nil, db.ErrConnectionLogNotFound)
	mockDB.EXPECT().UpdateDeviceStatus(gomock.Any(), "dev-new", models.DeviceStatusOnline, gomock.Any()).Return(nil)
	mockDB.EXPECT().StoreAuditEvent(gomock.Any(), gomock.Any()).Return(nil)

	var stored *models.ConnectionLog

	mockDB.EXPECT().StoreConnectionLog(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.ConnectionLog) error {
			stored = entry
			return nil
		})

	_, err := registry.SetStatus(context.Background(), "dev-new", models.DeviceStatusOnline, models.ProtocolCoAP, nil)
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, "true", stored.Metadata[metaFirstSeen])
}

func TestCountersReflectSnapshots(t *testing.T) {
	f := newRegistryFixture(t, models.PresenceConfig{})
	f.expectKnownDevice("dev-1")
	f.expectKnownDevice("dev-2")
	f.expectKnownDevice("dev-3")

	ctx := context.Background()

	_, err := f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	_, err = f.registry.SetStatus(ctx, "dev-2", models.DeviceStatusOnline, models.ProtocolTCP, nil)
	require.NoError(t, err)

	_, err = f.registry.SetStatus(ctx, "dev-3", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	_, err = f.registry.SetStatus(ctx, "dev-3", models.DeviceStatusOffline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, f.registry.CountOnline())
	assert.Len(t, f.registry.GetAll(), 3)

	counts := f.registry.CountByProtocol()
	assert.Equal(t, 2, counts[models.ProtocolMQTT])
	assert.Equal(t, 1, counts[models.ProtocolTCP])
}

func TestHeartbeatMarksInactiveExactlyOnce(t *testing.T) {
	config := models.PresenceConfig{
		HeartbeatInterval:   models.Duration(10 * time.Millisecond),
		InactivityThreshold: models.Duration(5 * time.Minute),
	}

	f := newRegistryFixture(t, config)
	f.expectKnownDevice("dev-1")

	var inactive atomic.Int32

	unsubscribe := f.bus.Subscribe(string(models.EventDeviceInactive), "test", func(_ context.Context, _ *models.PresenceEvent) {
		inactive.Add(1)
	})
	defer unsubscribe()

	_, err := f.registry.SetStatus(context.Background(), "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	// No activity for ten minutes of device time.
	f.clock.Advance(10 * time.Minute)

	require.Eventually(t, func() bool {
		rec, ok := f.registry.Get("dev-1")
		return ok && rec.Status == models.DeviceStatusInactive
	}, time.Second, 10*time.Millisecond)

	rec, ok := f.registry.Get("dev-1")
	require.True(t, ok)
	assert.Equal(t, "heartbeat timeout", rec.Metadata[metaInactiveReason])

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), inactive.Load(), "inactivity must be declared once, not repeatedly")
}

func TestHeartbeatRestartsOnReconnect(t *testing.T) {
	config := models.PresenceConfig{
		HeartbeatInterval:   models.Duration(10 * time.Millisecond),
		InactivityThreshold: models.Duration(5 * time.Minute),
	}

	f := newRegistryFixture(t, config)
	f.expectKnownDevice("dev-1")

	ctx := context.Background()

	_, err := f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)

	require.Eventually(t, func() bool {
		rec, ok := f.registry.Get("dev-1")
		return ok && rec.Status == models.DeviceStatusInactive
	}, time.Second, 10*time.Millisecond)

	// An explicit reconnect brings it back ONLINE with a fresh session and
	// a fresh monitor.
	reconnected, err := f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOnline, reconnected.Status)

	f.clock.Advance(10 * time.Minute)

	require.Eventually(t, func() bool {
		rec, ok := f.registry.Get("dev-1")
		return ok && rec.Status == models.DeviceStatusInactive
	}, time.Second, 10*time.Millisecond)
}

// Scenario: an MQTT device connects, goes quiet past the inactivity
// threshold, and its disconnect arrives late.
func TestPresenceLifecycleScenario(t *testing.T) {
	config := models.PresenceConfig{
		HeartbeatInterval:   models.Duration(10 * time.Millisecond),
		InactivityThreshold: models.Duration(5 * time.Minute),
	}

	f := newRegistryFixture(t, config)
	f.expectKnownDevice("dev-1")

	ctx := context.Background()

	online, err := f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOnline, models.ProtocolMQTT, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOnline, online.Status)
	assert.Equal(t, models.ProtocolMQTT, online.Protocol)
	assert.NotEmpty(t, online.SessionID)

	// Ten minutes of silence against a five-minute threshold.
	f.clock.Advance(10 * time.Minute)

	require.Eventually(t, func() bool {
		rec, ok := f.registry.Get("dev-1")
		return ok && rec.Status == models.DeviceStatusInactive
	}, time.Second, 10*time.Millisecond)

	offline, err := f.registry.SetStatus(ctx, "dev-1", models.DeviceStatusOffline, models.ProtocolMQTT, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOffline, offline.Status)
	assert.Equal(t, int64(600), offline.DurationSeconds)
}
