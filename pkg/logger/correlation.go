package logger

import (
	"context"

	"github.com/google/uuid"
)

// correlationIDKey marks the context storage slot for the correlation identifier.
type correlationIDKey struct{}

// WithCorrelationID stores a correlation identifier in ctx, generating a new
// one when id is empty. Attached to every incoming update so that log lines
// produced while handling it can be tied together.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}

	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation identifier stored in ctx,
// or an empty string when absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}

	return ""
}
