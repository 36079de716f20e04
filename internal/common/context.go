package common

import "context"

// correlationContextKey is the context key for the request correlation id.
type correlationContextKey struct{}

// WithCorrelationID returns a new context carrying the request correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationContextKey{}, id)
}

// GetCorrelationID extracts the correlation id from the context, if present.
func GetCorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationContextKey{}).(string)
	return id, ok && id != ""
}

// ForContext returns a logger tagged with the context's correlation id, or l
// itself when there is none.
func (l *Logger) ForContext(ctx context.Context) *Logger {
	if id, ok := GetCorrelationID(ctx); ok {
		return l.WithCorrelationId(id)
	}
	return l
}
