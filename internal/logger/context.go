package logger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const loggerKey contextKey = "logger"

func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID stores a request-scoped logger carrying the request id.
// Everything below the middleware pulls it back out with FromContext.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	log := Get().With(slog.String("request_id", requestID))
	return context.WithValue(ctx, loggerKey, log)
}

func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return Get()
}
