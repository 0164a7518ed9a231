package port

import (
	"context"
	"time"
)

// Span is the domain-facing view of a trace span.
type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	SetStatus(code string, message string)
	RecordError(err error)
}

// Telemetry lets the core emit spans and events without depending on a
// concrete tracing backend.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, Span)
	StartServiceSpan(ctx context.Context, service string, operation string, userID int) (context.Context, Span)

	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)
	RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{})

	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID int)
	RecordError(ctx context.Context, operation string, err error)
}
