package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID returns a context carrying the request correlation ID.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID stored in ctx, or "" when absent.
func GetCorrelationID(ctx context.Context) string {
	if cID, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return cID
	}
	return ""
}
