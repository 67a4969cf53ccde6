// Package reporting forwards unexpected failures to Sentry when configured.
//
// Reporting is opt-in; without a DSN every helper is a no-op so local runs and
// tests never reach the network.
package reporting

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

// Config selects the Sentry project and tags attached to every event.
type Config struct {
	DSN         string `env:"CIVIC_REPORTER_SENTRY_DSN"`
	Environment string `env:"CIVIC_REPORTER_SENTRY_ENVIRONMENT" envDefault:"development"`
	Release     string `env:"CIVIC_REPORTER_RELEASE"`
	ServerName  string
}

var enabled bool

// Setup initialises the Sentry client and returns a flush function to defer.
func Setup(cfg Config) (func(time.Duration), error) {
	noop := func(time.Duration) {}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		enabled = false
		return noop, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		ServerName:  cfg.ServerName,
	})
	if err != nil {
		return noop, fmt.Errorf("init sentry: %w", err)
	}
	enabled = true
	return func(timeout time.Duration) {
		sentry.Flush(timeout)
	}, nil
}

// Enabled reports whether events are being forwarded.
func Enabled() bool {
	return enabled
}

// CaptureError reports err unless reporting is disabled or err is nil.
func CaptureError(err error) {
	if !enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Middleware recovers panics in next and reports them before re-panicking,
// leaving the stdlib server to log and close the connection.
func Middleware(next http.Handler) http.Handler {
	if next == nil {
		return nil
	}
	if !enabled {
		return next
	}
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(next)
}

// Ignore marks errors that are expected during normal operation.
func Ignore(err error, expected ...error) error {
	for _, target := range expected {
		if errors.Is(err, target) {
			return nil
		}
	}
	return err
}
