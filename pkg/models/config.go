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

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a time.Duration that marshals to/from JSON as either a
// duration string ("5m") or a number of nanoseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}

		*d = Duration(parsed)

		return nil
	default:
		return fmt.Errorf("invalid duration value: %v", v)
	}
}

// CNPGDatabase describes the PostgreSQL (CNPG) cluster backing the durable
// store.
type CNPGDatabase struct {
	Host               string            `json:"host"`
	Port               int               `json:"port"`
	Database           string            `json:"database"`
	Username           string            `json:"username"`
	Password           string            `json:"password,omitempty"`
	SSLMode            string            `json:"ssl_mode,omitempty"`
	ApplicationName    string            `json:"application_name,omitempty"`
	MaxConnections     int32             `json:"max_connections,omitempty"`
	MinConnections     int32             `json:"min_connections,omitempty"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod  Duration          `json:"health_check_period,omitempty"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
}

// Validate ensures the database configuration is usable.
func (c *CNPGDatabase) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	return nil
}

// Reference tuning values for the presence registry.
const (
	DefaultHeartbeatInterval   = 60 * time.Second
	DefaultInactivityThreshold = 5 * time.Minute
	DefaultSweepInterval       = 5 * time.Minute
	DefaultEvictionTTL         = 24 * time.Hour
)

// PresenceConfig tunes the connection registry, heartbeat monitor, and
// stale-connection sweeper.
type PresenceConfig struct {
	HeartbeatInterval   Duration `json:"heartbeat_interval,omitempty"`
	InactivityThreshold Duration `json:"inactivity_threshold,omitempty"`
	SweepInterval       Duration `json:"sweep_interval,omitempty"`
	EvictionTTL         Duration `json:"eviction_ttl,omitempty"`
}

// Normalize fills zero values with the reference defaults.
func (c *PresenceConfig) Normalize() {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = Duration(DefaultHeartbeatInterval)
	}

	if c.InactivityThreshold <= 0 {
		c.InactivityThreshold = Duration(DefaultInactivityThreshold)
	}

	if c.SweepInterval <= 0 {
		c.SweepInterval = Duration(DefaultSweepInterval)
	}

	if c.EvictionTTL <= 0 {
		c.EvictionTTL = Duration(DefaultEvictionTTL)
	}
}

// NotifyConfig tunes the notification dispatcher.
type NotifyConfig struct {
	ChannelTimeout Duration `json:"channel_timeout,omitempty"`
	DedupeWindow   Duration `json:"dedupe_window,omitempty"`
	ConfigCacheTTL Duration `json:"config_cache_ttl,omitempty"`
	SystemScope    string   `json:"system_scope,omitempty"`

	// Webhooks receives every webhook-channel delivery; operator-level
	// endpoints, not per-device.
	Webhooks []WebhookTarget `json:"webhooks,omitempty"`
}

// WebhookTarget is one webhook delivery endpoint.
type WebhookTarget struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Normalize fills zero values with defaults.
func (c *NotifyConfig) Normalize() {
	if c.ChannelTimeout <= 0 {
		c.ChannelTimeout = Duration(5 * time.Second)
	}

	if c.DedupeWindow <= 0 {
		c.DedupeWindow = Duration(time.Minute)
	}

	if c.ConfigCacheTTL <= 0 {
		c.ConfigCacheTTL = Duration(time.Minute)
	}

	if c.SystemScope == "" {
		c.SystemScope = "operators"
	}
}

// MQTTConfig configures the MQTT ingress adapter.
type MQTTConfig struct {
	Broker        string `json:"broker"`
	ClientID      string `json:"client_id"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	QoS           byte   `json:"qos,omitempty"`
	StatusTopic   string `json:"status_topic,omitempty"`
	ActivityTopic string `json:"activity_topic,omitempty"`
	LastWillTopic string `json:"last_will_topic,omitempty"`
}

// Validate ensures the MQTT configuration is valid.
func (c *MQTTConfig) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}

	if c.ClientID == "" {
		return fmt.Errorf("mqtt client id is required")
	}

	return nil
}
