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
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
	"github.com/carverauto/devicepulse/pkg/presence"
)

// Default topic filters; the device identifier occupies the wildcard segment.
const (
	defaultStatusTopic   = "devices/+/status"
	defaultActivityTopic = "devices/+/activity"
	defaultLastWillTopic = "devices/+/lwt"

	disconnectTimeoutMs = 250
)

// MQTTAdapter subscribes to device status, activity, and last-will topics
// and translates each publish into a reporter call. A last-will message is
// a broker-asserted death notice and maps straight to OFFLINE instead of
// waiting out the heartbeat threshold.
type MQTTAdapter struct {
	config   models.MQTTConfig
	reporter presence.Reporter
	logger   logger.Logger
	client   mqtt.Client
	ctx      context.Context
}

// NewMQTTAdapter creates the adapter; Start connects and subscribes.
func NewMQTTAdapter(config models.MQTTConfig, reporter presence.Reporter, log logger.Logger) *MQTTAdapter {
	if config.StatusTopic == "" {
		config.StatusTopic = defaultStatusTopic
	}

	if config.ActivityTopic == "" {
		config.ActivityTopic = defaultActivityTopic
	}

	if config.LastWillTopic == "" {
		config.LastWillTopic = defaultLastWillTopic
	}

	return &MQTTAdapter{
		config:   config,
		reporter: reporter,
		logger:   log,
	}
}

// Start connects to the broker and subscribes to the device topics.
func (a *MQTTAdapter) Start(ctx context.Context) error {
	a.ctx = ctx

	opts := mqtt.NewClientOptions().
		AddBroker(a.config.Broker).
		SetClientID(a.config.ClientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			a.logger.Warn().Err(err).Msg("MQTT connection lost")
		}).
		SetOnConnectHandler(func(client mqtt.Client) {
			a.logger.Info().Str("broker", a.config.Broker).Msg("Connected to MQTT broker")

			if err := a.subscribe(client); err != nil {
				a.logger.Error().Err(err).Msg("MQTT subscribe failed")
			}
		})

	if a.config.Username != "" {
		opts.SetUsername(a.config.Username)
		opts.SetPassword(a.config.Password)
	}

	a.client = mqtt.NewClient(opts)

	if token := a.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", a.config.Broker, token.Error())
	}

	return nil
}

// Stop disconnects from the broker.
func (a *MQTTAdapter) Stop() {
	if a.client != nil && a.client.IsConnected() {
		a.client.Disconnect(disconnectTimeoutMs)
	}
}

// subscribe runs on every (re)connect so subscriptions survive broker restarts.
func (a *MQTTAdapter) subscribe(client mqtt.Client) error {
	subscriptions := map[string]mqtt.MessageHandler{
		a.config.StatusTopic:   a.handleStatus,
		a.config.ActivityTopic: a.handleActivity,
		a.config.LastWillTopic: a.handleLastWill,
	}

	for topic, handler := range subscriptions {
		if token := client.Subscribe(topic, a.config.QoS, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, token.Error())
		}

		a.logger.Debug().Str("topic", topic).Msg("Subscribed to MQTT topic")
	}

	return nil
}

func (a *MQTTAdapter) handleStatus(_ mqtt.Client, msg mqtt.Message) {
	identifier := identifierFromTopic(a.config.StatusTopic, msg.Topic())
	if identifier == "" {
		a.logger.Warn().Str("topic", msg.Topic()).Msg("Unresolvable MQTT status topic dropped")
		return
	}

	payload := strings.ToLower(strings.TrimSpace(string(msg.Payload())))

	switch payload {
	case "online", "connected":
		transport := &models.TransportDetails{
			ClientHandle: identifier,
			Metadata:     map[string]string{"mqtt_topic": msg.Topic()},
		}

		if err := a.reporter.ReportConnect(a.ctx, identifier, models.ProtocolMQTT, transport); err != nil {
			a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("MQTT connect signal failed")
		}
	case "offline", "disconnected":
		if err := a.reporter.ReportDisconnect(a.ctx, identifier, models.ProtocolMQTT); err != nil {
			a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("MQTT disconnect signal failed")
		}
	default:
		a.logger.Warn().
			Str("device_identifier", identifier).
			Str("payload", payload).
			Msg("Unrecognized MQTT status payload dropped")
	}
}

func (a *MQTTAdapter) handleActivity(_ mqtt.Client, msg mqtt.Message) {
	identifier := identifierFromTopic(a.config.ActivityTopic, msg.Topic())
	if identifier == "" {
		a.logger.Warn().Str("topic", msg.Topic()).Msg("Unresolvable MQTT activity topic dropped")
		return
	}

	metadata := map[string]string{
		"mqtt_topic":   msg.Topic(),
		"last_message": string(msg.Payload()),
	}

	if err := a.reporter.ReportActivity(a.ctx, identifier, metadata); err != nil {
		a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("MQTT activity signal failed")
	}
}

// handleLastWill treats a broker-published last-will as an immediate OFFLINE.
func (a *MQTTAdapter) handleLastWill(_ mqtt.Client, msg mqtt.Message) {
	identifier := identifierFromTopic(a.config.LastWillTopic, msg.Topic())
	if identifier == "" {
		a.logger.Warn().Str("topic", msg.Topic()).Msg("Unresolvable MQTT last-will topic dropped")
		return
	}

	a.logger.Info().
		Str("device_identifier", identifier).
		Msg("Last-will received, reporting device offline")

	if err := a.reporter.ReportDisconnect(a.ctx, identifier, models.ProtocolMQTT); err != nil {
		a.logger.Error().Err(err).Str("device_identifier", identifier).Msg("MQTT last-will signal failed")
	}
}

// identifierFromTopic extracts the segment of topic matching the first "+"
// wildcard in filter. Returns "" when the topic does not fit the filter.
func identifierFromTopic(filter, topic string) string {
	filterParts := strings.Split(filter, "/")
	topicParts := strings.Split(topic, "/")

	if len(filterParts) != len(topicParts) {
		return ""
	}

	for i, part := range filterParts {
		switch part {
		case "+":
			return topicParts[i]
		case topicParts[i]:
		default:
			return ""
		}
	}

	return ""
}
