package requestctx

import (
	"context"

	"github.com/google/uuid"
)

// requestIDContextKey is the context key for the per-request correlation id.
type requestIDContextKey struct{}

// adminSessionContextKey is the context key for the authenticated admin session.
type adminSessionContextKey struct{}

// RequestIDHeader carries the correlation id on responses and outbound calls.
const RequestIDHeader = "X-Request-Id"

// NewRequestID returns a fresh random request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID stores a request identifier in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request identifier stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}

// WithAdminSession stores the authenticated admin session id in context.
func WithAdminSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminSessionContextKey{}, sessionID)
}

// AdminSessionFromContext returns the admin session id stored in context.
func AdminSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(adminSessionContextKey{}).(string)
	return value
}
