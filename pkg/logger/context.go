package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With returns a context carrying the current logger extended with fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// WithRequestID tags the context logger with the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return With(ctx, "request_id", requestID)
}

// From returns the logger stored in ctx, or the process logger if none is set.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return LoggerWrapper()
}
