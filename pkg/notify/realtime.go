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

	"github.com/carverauto/devicepulse/pkg/models"
)

const notificationEvent = "notification"

// ErrMissingOrganization is returned when a realtime notification has no
// organization to scope the broadcast to.
var ErrMissingOrganization = errors.New("notification has no organization")

// RealtimeSender delivers notifications over the realtime broadcast fabric
// scoped to the owning organization.
type RealtimeSender struct {
	broadcaster Broadcaster
}

var _ Sender = (*RealtimeSender)(nil)

// NewRealtimeSender creates the organization-scoped realtime sender.
func NewRealtimeSender(broadcaster Broadcaster) *RealtimeSender {
	return &RealtimeSender{broadcaster: broadcaster}
}

func (s *RealtimeSender) Channel() models.Channel { return models.ChannelRealtime }

func (s *RealtimeSender) Send(ctx context.Context, msg *models.NotificationMessage) error {
	if msg.OrganizationID == "" {
		return ErrMissingOrganization
	}

	return s.broadcaster.Broadcast(ctx, "organization:"+msg.OrganizationID, notificationEvent, msg)
}

// SystemSender delivers to the system-wide operator scope. It backs the
// guaranteed path for HIGH and CRITICAL messages.
type SystemSender struct {
	broadcaster Broadcaster
	scope       string
}

var _ Sender = (*SystemSender)(nil)

// NewSystemSender creates a sender for the named system scope.
func NewSystemSender(broadcaster Broadcaster, scope string) *SystemSender {
	return &SystemSender{
		broadcaster: broadcaster,
		scope:       "system:" + scope,
	}
}

func (s *SystemSender) Channel() models.Channel { return models.ChannelRealtime }

func (s *SystemSender) Send(ctx context.Context, msg *models.NotificationMessage) error {
	return s.broadcaster.Broadcast(ctx, s.scope, notificationEvent, msg)
}
