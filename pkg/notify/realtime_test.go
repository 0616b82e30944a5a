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

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicepulse/pkg/models"
)

func TestRealtimeSenderScopesToOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	broadcaster := NewMockBroadcaster(ctrl)

	msg := &models.NotificationMessage{ID: "n-1", OrganizationID: "org-1"}

	broadcaster.EXPECT().Broadcast(gomock.Any(), "organization:org-1", notificationEvent, msg).Return(nil)

	sender := NewRealtimeSender(broadcaster)
	require.NoError(t, sender.Send(context.Background(), msg))
}

func TestRealtimeSenderRejectsMissingOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	broadcaster := NewMockBroadcaster(ctrl)

	sender := NewRealtimeSender(broadcaster)
	err := sender.Send(context.Background(), &models.NotificationMessage{ID: "n-1"})
	require.ErrorIs(t, err, ErrMissingOrganization)
}

func TestSystemSenderUsesSystemScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	broadcaster := NewMockBroadcaster(ctrl)

	msg := &models.NotificationMessage{ID: "n-1", Priority: models.PriorityCritical}

	broadcaster.EXPECT().Broadcast(gomock.Any(), "system:operators", notificationEvent, msg).Return(nil)

	sender := NewSystemSender(broadcaster, "operators")
	require.NoError(t, sender.Send(context.Background(), msg))
}
