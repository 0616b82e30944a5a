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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectForScope(t *testing.T) {
	tests := []struct {
		name    string
		scope   string
		subject string
	}{
		{
			name:    "device scope",
			scope:   DeviceScope("dev-1"),
			subject: "devicepulse.broadcast.device.dev-1",
		},
		{
			name:    "organization scope",
			scope:   OrganizationScope("org-42"),
			subject: "devicepulse.broadcast.organization.org-42",
		},
		{
			name:    "user scope",
			scope:   UserScope("u-7"),
			subject: "devicepulse.broadcast.user.u-7",
		},
		{
			name:    "system scope",
			scope:   SystemScope("operators"),
			subject: "devicepulse.broadcast.system.operators",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.subject, subjectForScope(tt.scope))
		})
	}
}
