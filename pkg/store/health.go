// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthChecker reports store reachability to the gRPC health service.
type HealthChecker struct {
	client   *redis.Client
	interval time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(client *redis.Client, interval time.Duration) *HealthChecker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &HealthChecker{client: client, interval: interval}
}

// Check performs a Redis health check
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.client.Ping(ctx).Err(); err != nil {
		logrus.Errorf("Redis health check failed: %v", err)
		return err
	}

	logrus.Debugf("Redis health check passed")
	return nil
}

// Watch updates the serving status of service until ctx is cancelled.
func (h *HealthChecker) Watch(ctx context.Context, hs *health.Server, service string) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if err := h.Check(ctx); err != nil {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus(service, status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
