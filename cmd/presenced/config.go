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

package main

import (
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

// Config is the presenced service configuration.
type Config struct {
	Database models.CNPGDatabase   `json:"database"`
	NATS     *models.NATSConfig    `json:"nats,omitempty"`
	Events   models.EventsConfig   `json:"events"`
	Presence models.PresenceConfig `json:"presence"`
	Notify   models.NotifyConfig   `json:"notify"`
	MQTT     *models.MQTTConfig    `json:"mqtt,omitempty"`

	// ListenAddr enables the WebSocket ingress listener when set.
	ListenAddr string `json:"listen_addr,omitempty" env:"LISTEN_ADDR"`

	Logging *logger.Config `json:"logging,omitempty"`
}

// Validate checks the composite configuration and applies defaults.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}

	if c.NATS != nil {
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}

	if err := c.Events.Validate(); err != nil {
		return err
	}

	if c.MQTT != nil {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}

	c.Presence.Normalize()
	c.Notify.Normalize()

	return nil
}
