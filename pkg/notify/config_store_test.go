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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

func TestResolveReturnsOrganizationConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)
	store := NewConfigStore(models.NotifyConfig{}, mockDB, logger.NewTestLogger())

	configured := &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelEmail},
		Priority:       models.PriorityHigh,
		Enabled:        true,
	}

	mockDB.EXPECT().GetNotificationConfig(gomock.Any(), "org-1", models.EventDeviceOffline).
		Return(configured, nil)

	resolved := store.Resolve(context.Background(), "org-1", models.EventDeviceOffline)
	require.NotNil(t, resolved)
	assert.Equal(t, configured, resolved)
}

func TestResolveFallsBackToSystemDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)
	store := NewConfigStore(models.NotifyConfig{}, mockDB, logger.NewTestLogger())

	mockDB.EXPECT().GetNotificationConfig(gomock.Any(), "org-1", models.EventDeviceError).
		Return(nil, db.ErrNotificationConfigNotFound)

	resolved := store.Resolve(context.Background(), "org-1", models.EventDeviceError)
	require.NotNil(t, resolved)
	assert.True(t, resolved.Enabled)
	assert.Equal(t, models.PriorityHigh, resolved.Priority)
	assert.Contains(t, resolved.Channels, models.ChannelWebhook)
}

func TestResolveFallsBackOnStoreOutage(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)
	store := NewConfigStore(models.NotifyConfig{}, mockDB, logger.NewTestLogger())

	mockDB.EXPECT().GetNotificationConfig(gomock.Any(), "org-1", models.EventDeviceOnline).
		Return(nil, errors.New("connection refused"))

	resolved := store.Resolve(context.Background(), "org-1", models.EventDeviceOnline)
	require.NotNil(t, resolved)
	assert.True(t, resolved.Enabled)
	assert.Equal(t, models.PriorityLow, resolved.Priority)
}

func TestResolveCachesLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)
	store := NewConfigStore(models.NotifyConfig{}, mockDB, logger.NewTestLogger())

	mockDB.EXPECT().GetNotificationConfig(gomock.Any(), "org-1", models.EventDeviceOffline).
		Return(nil, db.ErrNotificationConfigNotFound).
		Times(1)

	first := store.Resolve(context.Background(), "org-1", models.EventDeviceOffline)
	second := store.Resolve(context.Background(), "org-1", models.EventDeviceOffline)

	assert.Equal(t, first, second)
}

func TestBuildMessageIsDeterministic(t *testing.T) {
	device := &models.Device{
		DeviceID:       "dev-1",
		Identifier:     "sensor-7",
		OrganizationID: "org-1",
		Name:           "Pump 7",
	}

	event := offlineEvent("sess-1")

	config := &models.NotificationConfig{
		Type:     models.EventDeviceOffline,
		Channels: []models.Channel{models.ChannelRealtime},
		Priority: models.PriorityMedium,
		Enabled:  true,
	}

	msg := BuildMessage(device, event, config)

	assert.Equal(t, "Device Pump 7 offline", msg.Title)
	assert.Equal(t, "Device Pump 7 (dev-1) went from online to offline", msg.Content)
	assert.Equal(t, models.EventDeviceOffline, msg.Type)
	assert.Equal(t, models.PriorityMedium, msg.Priority)
	assert.Equal(t, "dev-1:offline:sess-1", msg.DedupeKey)
	assert.Equal(t, "org-1", msg.OrganizationID)

	again := BuildMessage(device, event, config)
	assert.Equal(t, msg.Title, again.Title)
	assert.Equal(t, msg.Content, again.Content)
	assert.Equal(t, msg.DedupeKey, again.DedupeKey)
	assert.NotEqual(t, msg.ID, again.ID)
}
