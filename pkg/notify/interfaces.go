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

// Package notify turns presence transitions into notification messages and
// fans them out to the configured delivery channels.
package notify

import (
	"context"

	"github.com/carverauto/devicepulse/pkg/models"
)

//go:generate mockgen -destination=mock_notify.go -package=notify github.com/carverauto/devicepulse/pkg/notify Sender,Broadcaster

// Sender delivers one notification message over one channel. The core
// decides what to send and where; the last-mile transport lives behind
// this interface.
type Sender interface {
	Channel() models.Channel
	Send(ctx context.Context, msg *models.NotificationMessage) error
}

// Broadcaster pushes realtime notifications to scoped subscribers.
// Satisfied by natsutil.Broadcaster.
type Broadcaster interface {
	Broadcast(ctx context.Context, scope, event string, payload any) error
}
