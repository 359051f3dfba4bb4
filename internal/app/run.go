// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/AccelByte/extend-tag-engine/pkg/handler"
	"github.com/AccelByte/extend-tag-engine/pkg/messaging"
	"github.com/sirupsen/logrus"
)

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background workers stop when ctx is cancelled.
	var workers sync.WaitGroup
	a.startWorkers(ctx, &workers)

	abort := func(err error) error {
		stop()
		workers.Wait()
		a.closeConnections()
		return err
	}

	if err := a.subscribe(ctx); err != nil {
		return abort(err)
	}

	// Start servers
	if err := a.grpcServer.Start(ctx); err != nil {
		return abort(err)
	}
	if err := a.metricsServer.Start(ctx); err != nil {
		return abort(err)
	}

	logrus.Info("application started successfully")

	<-ctx.Done()
	logrus.Info("shutdown signal received")

	workers.Wait()
	return a.Shutdown(context.Background())
}

func (a *App) startWorkers(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(3)
	go func() {
		defer wg.Done()
		a.healthChecker.Watch(ctx, a.grpcServer.Health(), handler.ServiceName)
	}()
	go func() {
		defer wg.Done()
		a.inactivity.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.tripwires.Run(ctx, a.geofenceEntries)
	}()
}

// subscribe feeds device reports from NATS into the engine.
func (a *App) subscribe(ctx context.Context) error {
	if a.natsClient == nil {
		logrus.Info("NATS disabled, device reports are accepted over gRPC only")
		return nil
	}

	entries, err := messaging.SubscribeGeofenceEntries(ctx, a.natsClient, a.geofenceEntries)
	if err != nil {
		return fmt.Errorf("failed to subscribe to geofence entries: %w", err)
	}
	a.subscriptions = append(a.subscriptions, entries)

	uploads, err := messaging.SubscribeLocationUploads(ctx, a.natsClient, a.inactivity)
	if err != nil {
		return fmt.Errorf("failed to subscribe to location uploads: %w", err)
	}
	a.subscriptions = append(a.subscriptions, uploads)

	logrus.Infof("subscribed to %s and %s", messaging.SubjectGeofenceEntry, messaging.SubjectLocationUpload)
	return nil
}

// Shutdown gracefully shuts down all application components.
//
// ============================================================
// DEVELOPER: Shutdown order is critical
// ============================================================
// Components are shut down in reverse dependency order:
// 1. Stop accepting new requests (gRPC + metrics servers)
// 2. Stop device subscriptions
// 3. Drain async work (pipeline actions, notifications)
// 4. Close external connections (NATS, Redis)
// 5. Flush telemetry data (OpenTelemetry)
//
// IMPORTANT: Shutdown errors are logged but don't stop the
// shutdown sequence. Each component gets a chance to clean up.
// ============================================================
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	// ============================================================
	// Step 1: Shutdown servers (stop accepting new requests)
	// ============================================================
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		logrus.Errorf("gRPC server shutdown error: %v", err)
	}
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		logrus.Errorf("metrics server shutdown error: %v", err)
	}

	// ============================================================
	// Step 2: Stop device subscriptions
	// ============================================================
	for _, sub := range a.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			logrus.Errorf("NATS unsubscribe error: %v", err)
		}
	}

	// ============================================================
	// Step 3: Drain async work
	// ============================================================
	a.pipelineManager.Wait()
	a.dispatcher.Wait()

	// ============================================================
	// Step 4: Close external connections
	// ============================================================
	a.closeConnections()

	// ============================================================
	// Step 5: Flush telemetry data
	// ============================================================
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
	return nil
}
