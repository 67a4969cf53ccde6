package reporter

import (
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/louisbranch/civicreporter/internal/platform/reporting"
	"github.com/louisbranch/civicreporter/internal/platform/requestctx"
)

const hxRedirectHeader = "HX-Redirect"

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware in declaration order.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	wrapped := handler
	for idx := len(middleware) - 1; idx >= 0; idx-- {
		if middleware[idx] == nil {
			continue
		}
		wrapped = middleware[idx](wrapped)
	}
	return wrapped
}

// RequestID reuses an incoming X-Request-Id or mints one, echoes it on the
// response and stores it in the request context for outbound API calls.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(requestctx.RequestIDHeader))
			if requestID == "" || len(requestID) > 128 {
				requestID = requestctx.NewRequestID()
			}
			w.Header().Set(requestctx.RequestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), requestID)))
		})
	}
}

// statusRecorder remembers the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(body []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(body)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// AccessLog logs one line per request. Health checks and static assets are
// skipped.
func AccessLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(recorder, r)
			status := recorder.status
			if status == 0 {
				status = http.StatusOK
			}
			log.Printf("http method=%s path=%s status=%d duration=%s request_id=%s",
				r.Method, r.URL.Path, status, time.Since(started).Round(time.Millisecond),
				requestctx.RequestIDFromContext(r.Context()))
		})
	}
}

func quietPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/static/")
}

// RecoverPanic converts panics into HTTP 500 responses after reporting them.
func RecoverPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					log.Printf("panic recovered method=%s path=%s request_id=%s panic=%v stack=%s",
						r.Method, r.URL.Path, requestctx.RequestIDFromContext(r.Context()), recovered,
						strings.TrimSpace(string(debug.Stack())))
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// ReportErrors forwards panics to Sentry when error reporting is enabled.
func ReportErrors() Middleware {
	return reporting.Middleware
}
