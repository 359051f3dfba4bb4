// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracerConfig describes where spans go and how many are kept.
type TracerConfig struct {
	ServiceName    string
	Environment    string
	InstanceID     int64
	ZipkinEndpoint string
	// SampleRatio applies to root spans; children follow their parent.
	SampleRatio float64
}

// NewTracerProvider batches spans to a Zipkin collector.
func NewTracerProvider(cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	exporter, err := zipkin.New(cfg.ZipkinEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create zipkin exporter for %s: %w", cfg.ZipkinEndpoint, err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("environment", cfg.Environment),
		attribute.Int64("ID", cfg.InstanceID),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
