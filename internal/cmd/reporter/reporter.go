// Package reporter parses reporter command flags and launches the web runtime.
package reporter

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/civicreporter/internal/platform/cmd"
	"github.com/louisbranch/civicreporter/internal/platform/reporting"
	"github.com/louisbranch/civicreporter/internal/services/reporter"
)

// Config holds reporter command configuration.
type Config struct {
	HTTPAddr      string  `env:"CIVIC_REPORTER_HTTP_ADDR" envDefault:":8501"`
	APIURL        string  `env:"API_URL" envDefault:"http://localhost:8000"`
	GoogleAPIKey  string  `env:"GOOGLE_API_KEY"`
	AdminPassword string  `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	SessionSecret string  `env:"CIVIC_REPORTER_SESSION_SECRET"`
	SecureCookie  bool    `env:"CIVIC_REPORTER_SECURE_COOKIE" envDefault:"false"`
	DBPath        string  `env:"CIVIC_REPORTER_DB_PATH" envDefault:"data/reporter.db"`
	HealthAddr    string  `env:"CIVIC_REPORTER_HEALTH_ADDR"`
	GeocodeRPS    float64 `env:"CIVIC_REPORTER_GEOCODE_RPS" envDefault:"5"`
	MaxPhotoBytes int64   `env:"CIVIC_REPORTER_MAX_PHOTO_BYTES" envDefault:"10485760"`

	Reporting reporting.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Complaints API base URL")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Local SQLite path for admin sessions and the triage audit log")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address (disabled when empty)")
	fs.Float64Var(&cfg.GeocodeRPS, "geocode-rps", cfg.GeocodeRPS, "Geocoding requests per second")
	fs.Int64Var(&cfg.MaxPhotoBytes, "max-photo-bytes", cfg.MaxPhotoBytes, "Largest accepted photo upload in bytes")
	fs.BoolVar(&cfg.SecureCookie, "secure-cookie", cfg.SecureCookie, "Mark the admin session cookie Secure")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the reporter web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceReporter, entrypoint.RunOptions{
		Reporting: cfg.Reporting,
	}, func(ctx context.Context) error {
		server, err := reporter.NewServer(reporter.Config{
			HTTPAddr:      cfg.HTTPAddr,
			APIURL:        cfg.APIURL,
			GoogleAPIKey:  cfg.GoogleAPIKey,
			GeocodeRPS:    cfg.GeocodeRPS,
			AdminPassword: cfg.AdminPassword,
			SessionSecret: cfg.SessionSecret,
			SecureCookie:  cfg.SecureCookie,
			DBPath:        cfg.DBPath,
			HealthAddr:    cfg.HealthAddr,
			MaxPhotoBytes: cfg.MaxPhotoBytes,
		})
		if err != nil {
			return fmt.Errorf("init reporter server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve reporter: %w", err)
		}
		return nil
	})
}
