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

// Package bus is the in-process status-change bus decoupling registry
// mutation from notification and broadcast side effects. Publish never
// blocks the caller; each subscriber drains its own buffered channel.
package bus

import (
	"context"
	"sync"

	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/models"
)

// EventStatusChange is published for every transition alongside the
// status-specific event name (models.EventTypeForStatus).
const EventStatusChange = "status_change"

const defaultSubscriberBuffer = 64

// Handler consumes one presence event on the subscriber's own goroutine.
type Handler func(ctx context.Context, event *models.PresenceEvent)

type subscriber struct {
	name    string
	event   string
	ch      chan *models.PresenceEvent
	done    chan struct{}
	once    sync.Once
	handler Handler
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// Bus fans presence events out to registered subscribers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]*subscriber
	logger logger.Logger
	ctx    context.Context
	wg     sync.WaitGroup
	closed bool
}

// New creates a bus whose subscriber handlers run under ctx.
func New(ctx context.Context, log logger.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]*subscriber),
		logger: log,
		ctx:    ctx,
	}
}

// Subscribe registers a handler for an event name and returns its
// unsubscribe function. The handler runs on a dedicated goroutine.
func (b *Bus) Subscribe(event, name string, handler Handler) func() {
	sub := &subscriber{
		name:    name,
		event:   event,
		ch:      make(chan *models.PresenceEvent, defaultSubscriberBuffer),
		done:    make(chan struct{}),
		handler: handler,
	}

	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return func() {}
	}

	b.subs[event] = append(b.subs[event], sub)
	b.wg.Add(1)
	b.mu.Unlock()

	go b.drain(sub)

	return func() {
		sub.stop()
		b.remove(sub)
	}
}

func (b *Bus) drain(sub *subscriber) {
	defer b.wg.Done()

	for {
		select {
		case <-sub.done:
			return
		case <-b.ctx.Done():
			return
		case event := <-sub.ch:
			sub.handler(b.ctx, event)
		}
	}
}

func (b *Bus) remove(target *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[target.event]
	for i, sub := range subs {
		if sub == target {
			b.subs[target.event] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

// Publish delivers the event to every subscriber of the event name. A
// subscriber whose buffer is full loses the event; the drop is logged and
// the publisher is never blocked.
func (b *Bus) Publish(event string, e *models.PresenceEvent) {
	b.mu.RLock()
	subs := b.subs[event]
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- e:
		default:
			b.logger.Warn().
				Str("event", event).
				Str("subscriber", sub.name).
				Str("device_id", e.DeviceID).
				Msg("Subscriber buffer full, dropping event")
		}
	}
}

// Close stops all subscribers and waits for in-flight handlers to return.
func (b *Bus) Close() {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return
	}

	b.closed = true

	var all []*subscriber
	for _, subs := range b.subs {
		all = append(all, subs...)
	}

	b.subs = make(map[string][]*subscriber)
	b.mu.Unlock()

	for _, sub := range all {
		sub.stop()
	}

	b.wg.Wait()
}
