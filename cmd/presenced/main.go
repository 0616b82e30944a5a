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

// presenced is the device presence and notification service. It consumes
// protocol signals, maintains the connection registry, and fans status
// changes out to notification channels.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/devicepulse/pkg/bus"
	"github.com/carverauto/devicepulse/pkg/config"
	"github.com/carverauto/devicepulse/pkg/db"
	"github.com/carverauto/devicepulse/pkg/lifecycle"
	"github.com/carverauto/devicepulse/pkg/logger"
	"github.com/carverauto/devicepulse/pkg/natsutil"
	"github.com/carverauto/devicepulse/pkg/notify"
	"github.com/carverauto/devicepulse/pkg/presence"
	"github.com/carverauto/devicepulse/pkg/presence/ingress"
)

var errFailedToLoadConfig = errors.New("failed to load config")

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/devicepulse/presenced.json", "Path to presenced config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgLoader := config.NewConfig(nil)

	var cfg Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	svcLogger, err := lifecycle.CreateComponentLogger(ctx, "presenced", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("Logger shutdown error: %v", err)
		}
	}()

	database, err := db.New(ctx, &cfg.Database, svcLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	defer func() { _ = database.Close() }()

	var (
		nc          *nats.Conn
		broadcaster presence.StatusBroadcaster
		events      presence.EventPublisher
	)

	if cfg.NATS != nil {
		nc, err = natsutil.Connect(cfg.NATS.URL, svcLogger)
		if err != nil {
			return err
		}

		defer nc.Close()

		natsBroadcaster := natsutil.NewBroadcaster(nc, svcLogger)
		broadcaster = natsBroadcaster

		if cfg.Events.Enabled {
			publisher, pubErr := natsutil.CreateEventPublisherWithDomain(
				ctx, nc, cfg.NATS.Domain, cfg.Events.StreamName, cfg.Events.Subjects, svcLogger)
			if pubErr != nil {
				return pubErr
			}

			events = publisher
		}
	}

	eventBus := bus.New(ctx, svcLogger)
	defer eventBus.Close()

	registry := presence.NewRegistry(ctx, cfg.Presence, database, eventBus, broadcaster, events, svcLogger)
	defer registry.Close()

	sweeper := presence.NewSweeper(registry, cfg.Presence, svcLogger)

	go func() {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			svcLogger.Error().Err(err).Msg("Sweeper stopped")
		}
	}()

	dispatcher := buildDispatcher(&cfg, database, broadcaster, svcLogger)
	unsubscribe := dispatcher.Attach(eventBus)

	defer unsubscribe()

	reporter := ingress.NewReporter(registry, database, svcLogger)

	if cfg.MQTT != nil {
		adapter := ingress.NewMQTTAdapter(*cfg.MQTT, reporter, svcLogger)
		if err := adapter.Start(ctx); err != nil {
			return err
		}

		defer adapter.Stop()
	}

	if cfg.ListenAddr != "" {
		startWebSocketListener(ctx, &cfg, reporter, svcLogger)
	}

	svcLogger.Info().Msg("presenced started")

	<-ctx.Done()

	svcLogger.Info().Msg("presenced shutting down")

	return nil
}

// buildDispatcher wires the notification fan-out from config. The realtime
// and system channels need the broadcast fabric; without NATS only the
// webhook channel is available.
func buildDispatcher(cfg *Config, database db.Service, broadcaster notify.Broadcaster, log logger.Logger) *notify.Dispatcher {
	store := notify.NewConfigStore(cfg.Notify, database, log)

	var senders []notify.Sender

	var system notify.Sender

	if broadcaster != nil {
		senders = append(senders, notify.NewRealtimeSender(broadcaster))

		scope := cfg.Notify.SystemScope
		if scope == "" {
			scope = "operators"
		}

		system = notify.NewSystemSender(broadcaster, scope)
	}

	if len(cfg.Notify.Webhooks) > 0 {
		senders = append(senders, notify.NewWebhookSender(cfg.Notify, log))
	}

	return notify.NewDispatcher(cfg.Notify, database, store, senders, system, log)
}

func startWebSocketListener(ctx context.Context, cfg *Config, reporter *ingress.SignalReporter, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/presence/ws", ingress.NewWebSocketAdapter(reporter, log))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("WebSocket ingress listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("WebSocket ingress failed")
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()
}
