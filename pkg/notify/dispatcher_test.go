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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

type dispatcherFixture struct {
	dispatcher *Dispatcher
	db         *db.MockService
	realtime   *MockSender
	webhook    *MockSender
	system     *MockSender
	audits     []*models.AuditEvent
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockDB := db.NewMockService(ctrl)
	log := logger.NewTestLogger()

	realtime := NewMockSender(ctrl)
	realtime.EXPECT().Channel().Return(models.ChannelRealtime).AnyTimes()

	webhook := NewMockSender(ctrl)
	webhook.EXPECT().Channel().Return(models.ChannelWebhook).AnyTimes()

	system := NewMockSender(ctrl)
	system.EXPECT().Channel().Return(models.ChannelRealtime).AnyTimes()

	f := &dispatcherFixture{
		db:       mockDB,
		realtime: realtime,
		webhook:  webhook,
		system:   system,
	}

	mockDB.EXPECT().StoreAuditEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *models.AuditEvent) error {
			f.audits = append(f.audits, event)
			return nil
		}).
		AnyTimes()

	store := NewConfigStore(models.NotifyConfig{}, mockDB, log)
	f.dispatcher = NewDispatcher(models.NotifyConfig{}, mockDB, store, []Sender{realtime, webhook}, system, log)

	return f
}

func (f *dispatcherFixture) expectDevice(deviceID, orgID string) {
	f.db.EXPECT().GetDeviceByID(gomock.Any(), deviceID).
		Return(&models.Device{DeviceID: deviceID, Identifier: deviceID, OrganizationID: orgID, Name: "Pump 7"}, nil).
		AnyTimes()
}

func (f *dispatcherFixture) expectConfig(orgID string, config *models.NotificationConfig) {
	f.db.EXPECT().GetNotificationConfig(gomock.Any(), orgID, gomock.Any()).
		Return(config, nil).
		AnyTimes()
}

func offlineEvent(sessionID string) *models.PresenceEvent {
	return &models.PresenceEvent{
		DeviceID:       "dev-1",
		PreviousStatus: models.DeviceStatusOnline,
		CurrentStatus:  models.DeviceStatusOffline,
		Record: &models.PresenceRecord{
			DeviceID:  "dev-1",
			Status:    models.DeviceStatusOffline,
			Protocol:  models.ProtocolMQTT,
			SessionID: sessionID,
		},
		Timestamp: time.Now().UTC(),
	}
}

func TestDispatchDeliversToConfiguredChannels(t *testing.T) {
	f := newDispatcherFixture(t)
	f.expectDevice("dev-1", "org-1")
	f.expectConfig("org-1", &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelRealtime, models.ChannelWebhook},
		Priority:       models.PriorityMedium,
		Enabled:        true,
	})

	f.realtime.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.webhook.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	// MEDIUM priority never touches the system-wide channel.

	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))

	require.Len(t, f.audits, 2)

	for _, audit := range f.audits {
		assert.Equal(t, models.AuditSeverityWarning, audit.Severity)
		assert.Equal(t, "notification_dispatch", audit.Category)
		assert.Equal(t, "org-1", audit.OrgID)
		assert.Equal(t, true, audit.Details["success"])
	}
}

func TestDisabledConfigSuppressesDispatch(t *testing.T) {
	f := newDispatcherFixture(t)
	f.expectDevice("dev-1", "org-1")
	f.expectConfig("org-1", &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelRealtime},
		Priority:       models.PriorityMedium,
		Enabled:        false,
	})

	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))

	assert.Empty(t, f.audits, "disabled config must produce zero attempts")
}

func TestElevatedPriorityAlwaysReachesSystemChannel(t *testing.T) {
	f := newDispatcherFixture(t)
	f.expectDevice("dev-1", "org-1")
	f.expectConfig("org-1", &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelRealtime},
		Priority:       models.PriorityCritical,
		Enabled:        true,
	})

	f.realtime.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.system.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))

	require.Len(t, f.audits, 2)
	assert.Equal(t, models.AuditSeverityCritical, f.audits[0].Severity)
}

func TestChannelFailureIsIndependent(t *testing.T) {
	f := newDispatcherFixture(t)
	f.expectDevice("dev-1", "org-1")
	f.expectConfig("org-1", &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelWebhook, models.ChannelRealtime},
		Priority:       models.PriorityMedium,
		Enabled:        true,
	})

	f.webhook.EXPECT().Send(gomock.Any(), gomock.Any()).Return(ErrWebhookStatus).Times(1)
	f.realtime.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))

	require.Len(t, f.audits, 2)
	assert.Equal(t, false, f.audits[0].Details["success"])
	assert.Equal(t, true, f.audits[1].Details["success"])
}

func TestDuplicateTransitionSuppressed(t *testing.T) {
	f := newDispatcherFixture(t)
	f.expectDevice("dev-1", "org-1")
	f.expectConfig("org-1", &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelRealtime},
		Priority:       models.PriorityMedium,
		Enabled:        true,
	})

	f.realtime.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// Racing adapters reporting the same transition of the same session.
	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))
	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))

	require.Len(t, f.audits, 1)
}

func TestDistinctSessionsAreNotDeduplicated(t *testing.T) {
	f := newDispatcherFixture(t)
	f.expectDevice("dev-1", "org-1")
	f.expectConfig("org-1", &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelRealtime},
		Priority:       models.PriorityMedium,
		Enabled:        true,
	})

	f.realtime.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))
	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-2"))

	require.Len(t, f.audits, 2)
}

func TestUnregisteredChannelIsSkipped(t *testing.T) {
	f := newDispatcherFixture(t)
	f.expectDevice("dev-1", "org-1")
	f.expectConfig("org-1", &models.NotificationConfig{
		OrganizationID: "org-1",
		Type:           models.EventDeviceOffline,
		Channels:       []models.Channel{models.ChannelSMS, models.ChannelRealtime},
		Priority:       models.PriorityMedium,
		Enabled:        true,
	})

	f.realtime.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	f.dispatcher.OnStatusChange(context.Background(), offlineEvent("sess-1"))

	// Only the registered channel produces an attempt.
	require.Len(t, f.audits, 1)
}
