package config

import (
	"testing"

	"github.com/slighter12/go-lib/database/postgres"
)

func TestFinalize_MissingPostgresSection(t *testing.T) {
	cfg := &Config{}

	if err := finalize(cfg); err == nil {
		t.Fatal("finalize() = nil, want error for missing postgres section")
	}
}

func TestFinalize_AppliesBodySizeDefault(t *testing.T) {
	cfg := &Config{Postgres: &postgres.DBConn{}}

	if err := finalize(cfg); err != nil {
		t.Fatalf("finalize() = %v, want nil", err)
	}
	if cfg.HTTP.MaxRequestBodySize != defaultMaxRequestBodySize {
		t.Fatalf("MaxRequestBodySize = %q, want %q", cfg.HTTP.MaxRequestBodySize, defaultMaxRequestBodySize)
	}
}

func TestFinalize_KeepsConfiguredBodySize(t *testing.T) {
	cfg := &Config{Postgres: &postgres.DBConn{}}
	cfg.HTTP.MaxRequestBodySize = "2MB"

	if err := finalize(cfg); err != nil {
		t.Fatalf("finalize() = %v, want nil", err)
	}
	if cfg.HTTP.MaxRequestBodySize != "2MB" {
		t.Fatalf("MaxRequestBodySize = %q, want %q", cfg.HTTP.MaxRequestBodySize, "2MB")
	}
}
