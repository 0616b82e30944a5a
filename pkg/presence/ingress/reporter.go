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

// Package ingress translates protocol-native events into registry calls.
// The protocol listeners themselves live outside the presence core; the
// adapters here own only the signal translation contract.
package ingress

import (
	"context"
	"errors"
	"fmt"

	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
	"github.com/carverauto/devicepulse/pkg/presence"
)

// SignalReporter resolves device identifiers against the durable store and
// forwards the uniform (deviceID, protocol, signal) tuple to the registry.
// An event that cannot be mapped to a device is logged and dropped; it is
// never a fatal condition for the listener.
type SignalReporter struct {
	registry presence.Manager
	db       db.Service
	logger   logger.Logger
}

var _ presence.Reporter = (*SignalReporter)(nil)

// NewReporter creates the signal reporter shared by all protocol adapters.
func NewReporter(registry presence.Manager, database db.Service, log logger.Logger) *SignalReporter {
	return &SignalReporter{
		registry: registry,
		db:       database,
		logger:   log,
	}
}

// ReportConnect marks the device ONLINE with the observed transport details.
func (r *SignalReporter) ReportConnect(ctx context.Context, deviceIdentifier string, protocol models.Protocol, transport *models.TransportDetails) error {
	device, ok := r.resolve(ctx, deviceIdentifier, protocol)
	if !ok {
		return nil
	}

	var partial *models.PresenceRecord

	if transport != nil {
		partial = &models.PresenceRecord{
			Address:      transport.Address,
			Port:         transport.Port,
			ClientHandle: transport.ClientHandle,
			Metadata:     transport.Metadata,
		}
	}

	if _, err := r.registry.SetStatus(ctx, device.DeviceID, models.DeviceStatusOnline, protocol, partial); err != nil {
		return fmt.Errorf("failed to report connect for %s: %w", deviceIdentifier, err)
	}

	return nil
}

// ReportDisconnect marks the device OFFLINE.
func (r *SignalReporter) ReportDisconnect(ctx context.Context, deviceIdentifier string, protocol models.Protocol) error {
	device, ok := r.resolve(ctx, deviceIdentifier, protocol)
	if !ok {
		return nil
	}

	if _, err := r.registry.SetStatus(ctx, device.DeviceID, models.DeviceStatusOffline, protocol, nil); err != nil {
		return fmt.Errorf("failed to report disconnect for %s: %w", deviceIdentifier, err)
	}

	return nil
}

// ReportActivity advances the device's activity clock. Activity preceding
// any status signal is dropped by the registry.
func (r *SignalReporter) ReportActivity(ctx context.Context, deviceIdentifier string, metadata map[string]string) error {
	device, ok := r.resolve(ctx, deviceIdentifier, models.ProtocolUnknown)
	if !ok {
		return nil
	}

	r.registry.UpdateActivity(ctx, device.DeviceID, metadata)

	return nil
}

func (r *SignalReporter) resolve(ctx context.Context, deviceIdentifier string, protocol models.Protocol) (*models.Device, bool) {
	if deviceIdentifier == "" {
		r.logger.Warn().
			Str("protocol", string(protocol)).
			Msg("Signal without device identifier dropped")

		return nil, false
	}

	device, err := r.db.GetDeviceByIdentifier(ctx, deviceIdentifier)
	if err != nil {
		if errors.Is(err, db.ErrDeviceNotFound) {
			r.logger.Warn().
				Str("device_identifier", deviceIdentifier).
				Str("protocol", string(protocol)).
				Msg("Signal for unknown device dropped")
		} else {
			r.logger.Error().Err(err).
				Str("device_identifier", deviceIdentifier).
				Msg("Device resolution failed, signal dropped")
		}

		return nil, false
	}

	return device, true
}
