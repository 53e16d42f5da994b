package obs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

var (
	tracer = otel.Tracer("visit-route-service")
	logger atomic.Pointer[slog.Logger]
)

// SetLogger replaces the logger used for operation timings.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

func current() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// WithRequestID stores the request id used to correlate timing lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts a span and a stopwatch for op. The returned func ends both and
// logs the duration, including the error pointed to by errp when non-nil.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	_, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))

	reqID := RequestID(ctx)

	return func(errp *error) {
		defer span.End()
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
			current().Warn("op failed", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "error", *errp)
			return
		}
		current().Debug("op done", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
