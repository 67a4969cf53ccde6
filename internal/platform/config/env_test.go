package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int    `env:"CIVIC_REPORTER_TEST_PORT" envDefault:"123"`
	Name string `env:"CIVIC_REPORTER_TEST_NAME"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("CIVIC_REPORTER_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDotEnvSkipsMissingFiles(t *testing.T) {
	loaded, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("loaded = %v, want none", loaded)
	}
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CIVIC_REPORTER_TEST_NAME=from-file\nCIVIC_REPORTER_TEST_PORT=456\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("CIVIC_REPORTER_TEST_NAME", "from-env")
	// Registered with t.Setenv so the value loaded from file is restored afterwards.
	t.Setenv("CIVIC_REPORTER_TEST_PORT", "")
	os.Unsetenv("CIVIC_REPORTER_TEST_PORT")

	loaded, err := LoadDotEnv(path)
	if err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != path {
		t.Fatalf("loaded = %v, want [%s]", loaded, path)
	}

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Fatalf("Name = %q, want %q", cfg.Name, "from-env")
	}
	if cfg.Port != 456 {
		t.Fatalf("Port = %d, want 456", cfg.Port)
	}
}
