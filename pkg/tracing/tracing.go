package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "todoapi"

// CreateChildSpan starts a span under whatever span the context carries.
func CreateChildSpan(ctx context.Context, name string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)

	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func AddSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func AddSpanEvent(span trace.Span, name string, attrs []attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)

	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}
