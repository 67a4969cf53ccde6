package reporter

import (
	"context"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/civicreporter/internal/platform/reporting"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("reporter", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	want := Config{
		HTTPAddr:      ":8501",
		APIURL:        "http://localhost:8000",
		AdminPassword: "admin123",
		DBPath:        "data/reporter.db",
		GeocodeRPS:    5,
		MaxPhotoBytes: 10 << 20,
		Reporting:     reporting.Config{Environment: "development"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("API_URL", "http://api.internal:8000")
	t.Setenv("GOOGLE_API_KEY", "key-1")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("CIVIC_REPORTER_HTTP_ADDR", ":9000")
	t.Setenv("CIVIC_REPORTER_SENTRY_DSN", "https://public@sentry.example/1")

	fs := flag.NewFlagSet("reporter", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-http-addr", "127.0.0.1:9001",
		"-health-addr", "127.0.0.1:9002",
		"-geocode-rps", "2.5",
		"-secure-cookie",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9001" {
		t.Fatalf("http addr = %q, want flag value", cfg.HTTPAddr)
	}
	if cfg.APIURL != "http://api.internal:8000" {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.GoogleAPIKey != "key-1" || cfg.AdminPassword != "s3cret" {
		t.Fatalf("secrets not read from env: %+v", cfg)
	}
	if cfg.HealthAddr != "127.0.0.1:9002" || cfg.GeocodeRPS != 2.5 || !cfg.SecureCookie {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
	if cfg.Reporting.DSN != "https://public@sentry.example/1" {
		t.Fatalf("sentry dsn = %q", cfg.Reporting.DSN)
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("CIVIC_REPORTER_GEOCODE_RPS", "fast")

	fs := flag.NewFlagSet("reporter", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for non-numeric geocode rps")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := Config{
		HTTPAddr:      "127.0.0.1:0",
		APIURL:        "http://127.0.0.1:1",
		AdminPassword: "pw",
		DBPath:        filepath.Join(t.TempDir(), "reporter.db"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	err := Run(context.Background(), Config{HTTPAddr: "127.0.0.1:0", APIURL: "ftp://api", AdminPassword: "pw", DBPath: filepath.Join(t.TempDir(), "r.db")})
	if err == nil {
		t.Fatal("expected error for bad api url")
	}
}
