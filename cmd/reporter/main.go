// Package main starts the civic reporter web front-end.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	reportercmd "github.com/louisbranch/civicreporter/internal/cmd/reporter"
	entrypoint "github.com/louisbranch/civicreporter/internal/platform/cmd"
)

func main() {
	log.SetPrefix("[REPORTER] ")
	entrypoint.LoadDotEnv()
	cfg, err := reportercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reportercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
