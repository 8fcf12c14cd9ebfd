package extensions

import (
	"context"

	"github.com/depreq/depreq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing opens one span per request using the given tracer name, setting
// the span's status from the request's outcome.
type Tracing struct {
	depreq.BaseExtension
	tracer trace.Tracer
}

// NewTracing builds a Tracing extension using the global TracerProvider.
func NewTracing(tracerName string) *Tracing {
	return &Tracing{tracer: otel.Tracer(tracerName)}
}

type spanKey struct{}

func (t *Tracing) Wrap(ctx context.Context, req *depreq.Request) (context.Context, func(), error) {
	ctx, span := t.tracer.Start(ctx, req.Method()+" "+req.Path())
	span.SetAttributes(
		attribute.String("http.method", req.Method()),
		attribute.String("http.path", req.Path()),
	)
	ctx = context.WithValue(ctx, spanKey{}, span)
	return ctx, func() { span.End() }, nil
}

func (t *Tracing) OnError(ctx context.Context, _ *depreq.Request, f *depreq.Failure) {
	if span, ok := ctx.Value(spanKey{}).(trace.Span); ok {
		span.SetStatus(codes.Error, f.Message)
		span.SetAttributes(attribute.String("depreq.failure_kind", string(f.Kind)))
	}
}
