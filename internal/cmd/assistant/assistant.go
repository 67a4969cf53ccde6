// Package assistant parses assistant command flags and serves MCP on stdio.
package assistant

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/civicreporter/internal/platform/cmd"
	"github.com/louisbranch/civicreporter/internal/platform/reporting"
	"github.com/louisbranch/civicreporter/internal/services/assistant"
)

// Config holds assistant command configuration.
type Config struct {
	APIURL         string        `env:"API_URL" envDefault:"http://localhost:8000"`
	HealthInterval time.Duration `env:"CIVIC_REPORTER_ASSISTANT_HEALTH_INTERVAL" envDefault:"30s"`

	Reporting reporting.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Complaints API base URL")
	fs.DurationVar(&cfg.HealthInterval, "health-interval", cfg.HealthInterval, "How often to ping the complaints API (negative disables)")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the status assistant until stdin closes or ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceAssistant, entrypoint.RunOptions{
		Reporting: cfg.Reporting,
	}, func(ctx context.Context) error {
		server, err := assistant.NewServer(assistant.Config{
			APIURL:         cfg.APIURL,
			HealthInterval: cfg.HealthInterval,
		})
		if err != nil {
			return fmt.Errorf("init assistant: %w", err)
		}
		return server.Serve(ctx)
	})
}
