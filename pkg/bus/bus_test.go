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

package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := New(context.Background(), logger.NewTestLogger())
	defer b.Close()

	var (
		mu       sync.Mutex
		received []*models.PresenceEvent
	)

	unsubscribe := b.Subscribe(EventStatusChange, "test", func(_ context.Context, e *models.PresenceEvent) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})
	defer unsubscribe()

	event := &models.PresenceEvent{
		DeviceID:      "dev-1",
		CurrentStatus: models.DeviceStatusOnline,
		Timestamp:     time.Now(),
	}

	b.Publish(EventStatusChange, event)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "dev-1", received[0].DeviceID)
	mu.Unlock()
}

func TestBus_EventNameIsolation(t *testing.T) {
	b := New(context.Background(), logger.NewTestLogger())
	defer b.Close()

	var (
		mu     sync.Mutex
		online int
	)

	b.Subscribe(string(models.EventDeviceOnline), "online-only", func(_ context.Context, _ *models.PresenceEvent) {
		mu.Lock()
		online++
		mu.Unlock()
	})

	b.Publish(string(models.EventDeviceOffline), &models.PresenceEvent{DeviceID: "dev-1"})
	b.Publish(string(models.EventDeviceOnline), &models.PresenceEvent{DeviceID: "dev-1"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return online == 1
	}, time.Second, 10*time.Millisecond)

	// The offline publish must never arrive.
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, online)
	mu.Unlock()
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New(context.Background(), logger.NewTestLogger())
	defer b.Close()

	var (
		mu    sync.Mutex
		count int
	)

	unsubscribe := b.Subscribe(EventStatusChange, "test", func(_ context.Context, _ *models.PresenceEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	b.Publish(EventStatusChange, &models.PresenceEvent{DeviceID: "dev-1"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 10*time.Millisecond)

	unsubscribe()

	b.Publish(EventStatusChange, &models.PresenceEvent{DeviceID: "dev-1"})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, count)
	mu.Unlock()
}

func TestBus_PublishAfterCloseDoesNotPanic(t *testing.T) {
	b := New(context.Background(), logger.NewTestLogger())

	b.Subscribe(EventStatusChange, "test", func(_ context.Context, _ *models.PresenceEvent) {})
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(EventStatusChange, &models.PresenceEvent{DeviceID: "dev-1"})
	})
}
