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

package natsutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/devicepulse/pkg/logger"
)

const broadcastSubjectPrefix = "devicepulse.broadcast"

// Scope helpers for realtime broadcast targeting. A scope names the set of
// subscribers a message is addressed to.
func DeviceScope(deviceID string) string { return "device:" + deviceID }

func OrganizationScope(orgID string) string { return "organization:" + orgID }

func UserScope(userID string) string { return "user:" + userID }

func SystemScope(name string) string { return "system:" + name }

// BroadcastMessage is the wire envelope for realtime scope broadcasts.
type BroadcastMessage struct {
	Scope     string    `json:"scope"`
	Event     string    `json:"event"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster publishes scoped realtime messages over core NATS. Gateway
// processes subscribe to the scopes their connected clients belong to and
// relay matching messages downstream.
type Broadcaster struct {
	nc     *nats.Conn
	logger logger.Logger
}

// NewBroadcaster creates a Broadcaster on an existing NATS connection.
func NewBroadcaster(nc *nats.Conn, log logger.Logger) *Broadcaster {
	return &Broadcaster{
		nc:     nc,
		logger: log,
	}
}

// Broadcast publishes an event to every subscriber of the given scope.
func (b *Broadcaster) Broadcast(_ context.Context, scope, event string, payload any) error {
	msg := BroadcastMessage{
		Scope:     scope,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast message: %w", err)
	}

	subject := subjectForScope(scope)

	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish broadcast to %s: %w", subject, err)
	}

	b.logger.Debug().
		Str("scope", scope).
		Str("event", event).
		Str("subject", subject).
		Msg("Broadcast published")

	return nil
}

// subjectForScope maps a scope like "device:abc" onto a NATS subject. Scope
// separators become subject tokens so subscribers can use wildcards, e.g.
// "devicepulse.broadcast.device.*".
func subjectForScope(scope string) string {
	token := strings.ReplaceAll(scope, ":", ".")
	return broadcastSubjectPrefix + "." + token
}
