package reporting

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetupWithoutDSNIsNoop(t *testing.T) {
	flush, err := Setup(Config{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	flush(time.Millisecond)
	if Enabled() {
		t.Fatal("expected reporting to stay disabled without a DSN")
	}
	CaptureError(errors.New("ignored"))
}

func TestSetupRejectsMalformedDSN(t *testing.T) {
	if _, err := Setup(Config{DSN: "::not a dsn"}); err == nil {
		t.Fatal("expected malformed DSN to fail")
	}
	enabled = false
}

func TestMiddlewarePassThroughWhenDisabled(t *testing.T) {
	enabled = false
	called := false
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatal("expected wrapped handler to run")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestIgnore(t *testing.T) {
	if err := Ignore(context.Canceled, context.Canceled); err != nil {
		t.Fatalf("Ignore(context.Canceled) = %v, want nil", err)
	}
	wrapped := errors.New("boom")
	if err := Ignore(wrapped, context.Canceled); !errors.Is(err, wrapped) {
		t.Fatalf("Ignore(boom) = %v, want boom", err)
	}
}
