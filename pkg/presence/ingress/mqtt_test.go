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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifierFromTopic(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		topic  string
		want   string
	}{
		{
			name:   "wildcard segment",
			filter: "devices/+/status",
			topic:  "devices/sensor-7/status",
			want:   "sensor-7",
		},
		{
			name:   "last will topic",
			filter: "devices/+/lwt",
			topic:  "devices/gw-01/lwt",
			want:   "gw-01",
		},
		{
			name:   "segment count mismatch",
			filter: "devices/+/status",
			topic:  "devices/sensor-7/status/extra",
			want:   "",
		},
		{
			name:   "literal segment mismatch",
			filter: "devices/+/status",
			topic:  "sensors/sensor-7/status",
			want:   "",
		},
		{
			name:   "no wildcard in filter",
			filter: "devices/status",
			topic:  "devices/status",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identifierFromTopic(tt.filter, tt.topic))
		})
	}
}

func TestIdentifierFromRequest(t *testing.T) {
	byQuery := httptest.NewRequest(http.MethodGet, "/presence?device=sensor-7", nil)
	assert.Equal(t, "sensor-7", identifierFromRequest(byQuery))

	byHeader := httptest.NewRequest(http.MethodGet, "/presence", nil)
	byHeader.Header.Set(deviceHeader, "gw-01")
	assert.Equal(t, "gw-01", identifierFromRequest(byHeader))

	neither := httptest.NewRequest(http.MethodGet, "/presence", nil)
	assert.Empty(t, identifierFromRequest(neither))
}
