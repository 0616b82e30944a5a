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

package db

import "errors"

var (

	// Core database errors.

	ErrDatabaseError   = errors.New("database error")
	ErrCNPGUnavailable = errors.New("cnpg pool not configured")

	// Lookup errors.

	ErrDeviceNotFound             = errors.New("device not found")
	ErrNotificationConfigNotFound = errors.New("notification config not found")
	ErrConnectionLogNotFound      = errors.New("connection log not found")

	// Validation errors.

	ErrConnectionLogNil      = errors.New("connection log is nil")
	ErrDeviceIDRequired      = errors.New("device id is required")
	ErrIdentifierRequired    = errors.New("device identifier is required")
	ErrAuditEventNil         = errors.New("audit event is nil")
	ErrOrganizationIDMissing = errors.New("organization id is required")
)
