// Copyright (c) 2023 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	traceIdLogField = "traceID"
	tracerName      = "tag-engine"
)

// Scope is one traced unit of work: a span, the context carrying it and a
// logger stamped with the trace id.
type Scope struct {
	Ctx     context.Context
	TraceID string
	Log     *log.Entry
	span    oteltrace.Span
}

// GetScopeFromContext starts a span named name under the span carried by ctx.
func GetScopeFromContext(ctx context.Context, name string) *Scope {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, name)
	traceID := span.SpanContext().TraceID().String()

	return &Scope{
		Ctx:     spanCtx,
		TraceID: traceID,
		Log:     log.WithField(traceIdLogField, traceID),
		span:    span,
	}
}

// Identify stamps the span and the logger with the game and player the work
// is about. Empty ids are skipped.
func (s *Scope) Identify(gameID, playerID string) {
	fields := log.Fields{}
	if gameID != "" {
		s.span.SetAttributes(attribute.String("game.id", gameID))
		fields["gameId"] = gameID
	}
	if playerID != "" {
		s.span.SetAttributes(attribute.String("player.id", playerID))
		fields["playerId"] = playerID
	}
	if len(fields) > 0 {
		s.Log = s.Log.WithFields(fields)
	}
}

func (s *Scope) Finish() {
	s.span.End()
}

// TraceError records err on the span and marks it failed.
func (s *Scope) TraceError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttributes adds a span attribute. Unsupported value types are logged and dropped.
func (s *Scope) SetAttributes(key string, value interface{}) {
	var kv attribute.KeyValue
	switch v := value.(type) {
	case bool:
		kv = attribute.Bool(key, v)
	case string:
		kv = attribute.String(key, v)
	case int:
		kv = attribute.Int(key, v)
	case int64:
		kv = attribute.Int64(key, v)
	case float64:
		kv = attribute.Float64(key, v)
	case []string:
		kv = attribute.StringSlice(key, v)
	default:
		s.Log.Warnf("dropping span attribute %s of type %T", key, value)
		return
	}
	s.span.SetAttributes(kv)
}
