package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/civicreporter/internal/platform/config"
	"github.com/louisbranch/civicreporter/internal/platform/otel"
	"github.com/louisbranch/civicreporter/internal/platform/reporting"
)

const (
	defaultOTelShutdownTimeout = 5 * time.Second
	defaultReportFlushTimeout  = 2 * time.Second
)

// Service identifiers for command startup telemetry and CLI naming consistency.
const (
	ServiceReporter  = "reporter"
	ServiceAssistant = "assistant"
)

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// Reporting enables error reporting for the run when its DSN is set.
	Reporting reporting.Config
}

// LoadDotEnv reads .env style files into the process environment before
// configuration parsing. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	loaded, err := config.LoadDotEnv(paths...)
	if err != nil {
		log.Printf("dotenv: %v", err)
		return
	}
	for _, path := range loaded {
		log.Printf("loaded environment from %s", path)
	}
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry configures observability and executes a service run loop.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions configures observability and executes a service run loop.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()

	reportingCfg := options.Reporting
	if reportingCfg.ServerName == "" {
		reportingCfg.ServerName = service
	}
	flush, err := reporting.Setup(reportingCfg)
	if err != nil {
		return err
	}
	defer flush(defaultReportFlushTimeout)
	if reporting.Enabled() {
		log.Printf("%s error reporting enabled", service)
	}

	if err := run(ctx); err != nil {
		reporting.CaptureError(reporting.Ignore(err, context.Canceled))
		return err
	}
	return nil
}
