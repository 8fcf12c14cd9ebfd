// Package extensions provides optional depreq.Extension implementations:
// structured logging, failure-graph debugging, Prometheus metrics and
// OpenTelemetry tracing.
package extensions

import (
	"context"
	"log/slog"
	"time"

	"github.com/depreq/depreq"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestID returns the request ID injected by Logging, if any.
func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey{}).(string)
	return v, ok
}

// Logging logs every request's outcome through a *slog.Logger, stamping a
// UUID request ID on the context so handlers and other extensions can
// correlate log lines.
type Logging struct {
	depreq.BaseExtension
	logger *slog.Logger
}

// NewLogging builds a Logging extension writing through logger. A nil
// logger falls back to slog.Default().
func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

func (l *Logging) Wrap(ctx context.Context, req *depreq.Request) (context.Context, func(), error) {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	start := time.Now()
	l.logger.Info("request started", "request_id", id, "method", req.Method(), "path", req.Path())
	return ctx, func() {
		l.logger.Info("request finished", "request_id", id, "duration", time.Since(start))
	}, nil
}

func (l *Logging) OnError(ctx context.Context, req *depreq.Request, f *depreq.Failure) {
	id, _ := RequestID(ctx)
	l.logger.Error("request failed",
		"request_id", id,
		"method", req.Method(),
		"path", req.Path(),
		"kind", f.Kind,
		"source", f.Source,
		"name", f.Name,
		"message", f.Message,
	)
}

func (l *Logging) OnCleanupError(ctx context.Context, spec depreq.ProviderSpec, err error) {
	id, _ := RequestID(ctx)
	l.logger.Error("resource cleanup failed", "request_id", id, "provider", spec.String(), "error", err)
}
