// Package main starts the complaint status assistant over MCP stdio.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	assistantcmd "github.com/louisbranch/civicreporter/internal/cmd/assistant"
	entrypoint "github.com/louisbranch/civicreporter/internal/platform/cmd"
	"github.com/louisbranch/civicreporter/internal/platform/config"
)

func main() {
	// stdout carries the MCP stream.
	log.SetOutput(os.Stderr)
	log.SetPrefix("[ASSISTANT] ")
	entrypoint.LoadDotEnv()
	cfg, err := assistantcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := assistantcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
