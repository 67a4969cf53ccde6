package requestctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDFromContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-42")
	}
}

func TestRequestIDFromContextNil(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithRequestIDNilContext(t *testing.T) {
	ctx := WithRequestID(nil, "req-99")
	if ctx == nil {
		t.Fatalf("expected non-nil context")
	}
	if got := RequestIDFromContext(ctx); got != "req-99" {
		t.Fatalf("RequestIDFromContext = %q, want %q", got, "req-99")
	}
}

func TestNewRequestIDIsUUID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRequestID() = %q is not a uuid: %v", id, err)
	}
	if NewRequestID() == id {
		t.Fatal("expected distinct request ids")
	}
}

func TestAdminSessionFromContext(t *testing.T) {
	if got := AdminSessionFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty session, got %q", got)
	}
	ctx := WithAdminSession(context.Background(), "session-1")
	if got := AdminSessionFromContext(ctx); got != "session-1" {
		t.Fatalf("AdminSessionFromContext = %q, want %q", got, "session-1")
	}
}
