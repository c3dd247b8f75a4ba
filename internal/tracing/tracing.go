// Package tracing places OpenTracing spans around the request pipeline
// and the EXPLAIN round trip. With no tracer registered,
// opentracing.GlobalTracer() defaults to a no-op implementation.
package tracing

import (
	"context"

	"github.com/opentracing/opentracing-go"
)

// StartSpan begins a span named operationName, parented to any span
// already present on ctx, and returns the span alongside a context
// carrying it.
func StartSpan(ctx context.Context, operationName string) (opentracing.Span, context.Context) {
	return opentracing.StartSpanFromContext(ctx, operationName)
}
