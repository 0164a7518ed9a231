package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"todoapi/internal/core/port"
)

// OtelProbe implements the telemetry port on top of the global OpenTelemetry
// tracer provider.
type OtelProbe struct {
	tracer trace.Tracer
}

func NewOtelProbe(serviceName string) port.Telemetry {
	return &OtelProbe{
		tracer: otel.Tracer(serviceName),
	}
}

type OtelSpan struct {
	span trace.Span
}

func (s *OtelSpan) End() {
	s.span.End()
}

func (s *OtelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toKeyValues(attrs)...)
}

func (s *OtelSpan) SetStatus(code string, message string) {
	if code == "error" {
		s.span.SetStatus(codes.Error, message)
		return
	}

	s.span.SetStatus(codes.Ok, message)
}

func (s *OtelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (p *OtelProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	name := fmt.Sprintf("repository.%s.%s", entity, operation)

	ctx, span := p.tracer.Start(ctx, name, trace.WithAttributes(toKeyValues(attrs)...))

	return ctx, &OtelSpan{span: span}
}

func (p *OtelProbe) StartServiceSpan(ctx context.Context, service string, operation string, userID int) (context.Context, port.Span) {
	name := fmt.Sprintf("service.%s.%s", service, operation)

	ctx, span := p.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("service.operation", operation),
		attribute.Int("user.id", userID),
	))

	return ctx, &OtelSpan{span: span}
}

func (p *OtelProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("db.entity", entity),
		attribute.String("db.operation", operation),
		attribute.Int64("db.duration_ns", duration.Nanoseconds()),
	)

	if err != nil {
		span.RecordError(err)
	}
}

func (p *OtelProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	span := trace.SpanFromContext(ctx)

	span.AddEvent("db.query", trace.WithAttributes(
		attribute.String("db.statement", query),
		attribute.Int("db.args_count", len(args)),
	))
}

func (p *OtelProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID int) {
	span := trace.SpanFromContext(ctx)

	span.AddEvent(fmt.Sprintf("%s.%s", entity, event), trace.WithAttributes(
		attribute.String("entity.id", entityID),
		attribute.Int("user.id", userID),
	))
}

func (p *OtelProbe) RecordError(ctx context.Context, operation string, err error) {
	span := trace.SpanFromContext(ctx)

	span.RecordError(err)
	span.SetStatus(codes.Error, operation)
}

func toKeyValues(attrs map[string]interface{}) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			kvs = append(kvs, attribute.String(key, v))
		case int:
			kvs = append(kvs, attribute.Int(key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(key, v))
		case float64:
			kvs = append(kvs, attribute.Float64(key, v))
		default:
			kvs = append(kvs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return kvs
}
