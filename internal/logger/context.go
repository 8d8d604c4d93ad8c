package logger

import (
	"context"

	"go.uber.org/zap"
)

// loggerKey is the private context key for request-scoped loggers.
type loggerKey struct{}

// ContextWithLogger attaches a request-scoped logger to ctx so that
// downstream code can log with request fields already bound.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger attached by ContextWithLogger, or a
// no-op logger when the context carries none.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
