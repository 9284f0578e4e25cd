package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestIDKey struct{}

// WithRequestID stores the request ID so code below the HTTP layer can log it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ForContext returns base annotated with the request ID carried by ctx, if any.
func ForContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return base.With(zap.String("request_id", id))
	}
	return base
}
