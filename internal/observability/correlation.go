package observability

import (
	"context"

	"github.com/google/uuid"
)

// CorrelationIDHeader carries a client-chosen ID that ties the requests of
// one editing session together (generate, iterate, select). Inbound values
// are echoed back; requests without one get a generated ID.
const CorrelationIDHeader = "X-Correlation-ID"

type correlationContextKey struct{}

// NewCorrelationID returns a fresh correlation ID.
func NewCorrelationID() string {
	return uuid.New().String()
}

// WithCorrelationID returns a copy of ctx carrying the correlation ID.
// An empty ID leaves ctx unchanged.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationContextKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID carried by ctx, or
// the empty string.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationContextKey{}).(string)
	return id
}
