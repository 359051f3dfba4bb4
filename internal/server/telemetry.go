// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/common"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// SetupTelemetry installs the global tracer provider and propagators and
// returns the function that flushes pending spans on shutdown.
//
// ============================================================
// DEVELOPER: OpenTelemetry configuration
// ============================================================
// Spans are exported to Zipkin (OTEL_EXPORTER_ZIPKIN_ENDPOINT) and
// sampled per trace with OTEL_TRACE_SAMPLE_RATIO. Incoming trace
// context is accepted in B3 and W3C formats so device gateways
// and the AccelByte platform can both continue a trace.
// ============================================================
func SetupTelemetry(ctx context.Context, cfg common.TracerConfig) (func(context.Context) error, error) {
	tracerProvider, err := common.NewTracerProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		b3.New(),
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logrus.Infof("tracing %s (%s) to %s at ratio %.2f", cfg.ServiceName, cfg.Environment, cfg.ZipkinEndpoint, cfg.SampleRatio)

	return func(ctx context.Context) error {
		logrus.Info("flushing telemetry...")
		return tracerProvider.Shutdown(ctx)
	}, nil
}
