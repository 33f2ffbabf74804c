package logging

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type loggerKey struct{}

// FromContext returns the logger carried by ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger attaches logger to ctx. A nil ctx is treated as Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithRequest derives a logger tagged with a fresh request id and the
// operation name, and returns it attached to ctx along with the id.
// Every log line of one service call can then be correlated.
func WithRequest(ctx context.Context, operation string) (context.Context, string) {
	id := uuid.NewString()
	logger := FromContext(ctx).With(FieldRequestID, id, FieldOperation, operation)
	return WithLogger(ctx, logger), id
}
