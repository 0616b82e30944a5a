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

package ingress

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
	"github.com/carverauto/devicepulse/pkg/presence"
)

func newReporterFixture(t *testing.T) (*SignalReporter, *presence.MockManager, *db.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	manager := presence.NewMockManager(ctrl)
	database := db.NewMockService(ctrl)

	return NewReporter(manager, database, logger.NewTestLogger()), manager, database
}

func TestReportConnectResolvesIdentifier(t *testing.T) {
	reporter, manager, database := newReporterFixture(t)

	database.EXPECT().GetDeviceByIdentifier(gomock.Any(), "sensor-7").
		Return(&models.Device{DeviceID: "dev-7", Identifier: "sensor-7"}, nil)

	manager.EXPECT().
		SetStatus(gomock.Any(), "dev-7", models.DeviceStatusOnline, models.ProtocolMQTT, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ models.DeviceStatus, _ models.Protocol, partial *models.PresenceRecord) (*models.PresenceRecord, error) {
			require.NotNil(t, partial)
			assert.Equal(t, "10.0.0.9", partial.Address)
			assert.Equal(t, 1883, partial.Port)

			return &models.PresenceRecord{DeviceID: "dev-7"}, nil
		})

	transport := &models.TransportDetails{Address: "10.0.0.9", Port: 1883}

	err := reporter.ReportConnect(context.Background(), "sensor-7", models.ProtocolMQTT, transport)
	require.NoError(t, err)
}

func TestUnresolvableSignalIsDropped(t *testing.T) {
	reporter, _, database := newReporterFixture(t)

	database.EXPECT().GetDeviceByIdentifier(gomock.Any(), "stranger").
		Return(nil, db.ErrDeviceNotFound).
		Times(3)

	// No registry calls expected; resolution failure drops the signal.
	require.NoError(t, reporter.ReportConnect(context.Background(), "stranger", models.ProtocolTCP, nil))
	require.NoError(t, reporter.ReportDisconnect(context.Background(), "stranger", models.ProtocolTCP))
	require.NoError(t, reporter.ReportActivity(context.Background(), "stranger", nil))
}

func TestEmptyIdentifierIsDropped(t *testing.T) {
	reporter, _, _ := newReporterFixture(t)

	require.NoError(t, reporter.ReportConnect(context.Background(), "", models.ProtocolUDP, nil))
}

func TestReportDisconnectPropagatesRegistryErrors(t *testing.T) {
	reporter, manager, database := newReporterFixture(t)

	database.EXPECT().GetDeviceByIdentifier(gomock.Any(), "sensor-7").
		Return(&models.Device{DeviceID: "dev-7", Identifier: "sensor-7"}, nil)

	registryErr := errors.New("store unavailable")

	manager.EXPECT().
		SetStatus(gomock.Any(), "dev-7", models.DeviceStatusOffline, models.ProtocolWebSocket, nil).
		Return(nil, registryErr)

	err := reporter.ReportDisconnect(context.Background(), "sensor-7", models.ProtocolWebSocket)
	require.ErrorIs(t, err, registryErr)
}

func TestReportActivityForwardsMetadata(t *testing.T) {
	reporter, manager, database := newReporterFixture(t)

	database.EXPECT().GetDeviceByIdentifier(gomock.Any(), "sensor-7").
		Return(&models.Device{DeviceID: "dev-7", Identifier: "sensor-7"}, nil)

	manager.EXPECT().UpdateActivity(gomock.Any(), "dev-7", map[string]string{"last_message": "ping"})

	err := reporter.ReportActivity(context.Background(), "sensor-7", map[string]string{"last_message": "ping"})
	require.NoError(t, err)
}
