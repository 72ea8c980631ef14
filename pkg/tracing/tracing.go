// Package tracing propagates trace context across the WebSocket upgrade and
// the Kafka signal feed.
package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const traceHeaderKey = "X-Trace-Id"

var propagator = propagation.TraceContext{}

// InjectHeaders injects the current trace context into HTTP headers.
func InjectHeaders(ctx context.Context, header http.Header) http.Header {
	if header == nil {
		header = http.Header{}
	}
	propagator.Inject(ctx, propagation.HeaderCarrier(header))
	if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
		header.Set(traceHeaderKey, span.SpanContext().TraceID().String())
	}
	return header
}

// ExtractHeaders extracts trace context carried on the upgrade request so the
// whole connection is parented on the caller's trace.
func ExtractHeaders(ctx context.Context, header http.Header) context.Context {
	if header == nil {
		return ctx
	}
	ctx = propagator.Extract(ctx, propagation.HeaderCarrier(header))
	if traceID := header.Get(traceHeaderKey); traceID != "" {
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String("x-trace-id", traceID))
	}
	return ctx
}

// Tracer returns a named tracer for server components.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
