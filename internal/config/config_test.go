package config

import (
	"testing"
	"time"
)

func TestLoadAPIFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/holdco")
	t.Setenv("HOLDCO_API_TOKEN", "sekrit")
	t.Setenv("HOLDCO_REQUEST_TIMEOUT", "45s")
	t.Setenv("PORT", "9090")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Fatalf("request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.DefaultMode != "standard_10" {
		t.Fatalf("default mode = %q", cfg.DefaultMode)
	}
}

func TestLoadAPIFromEnvRequiredFields(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HOLDCO_API_TOKEN", "sekrit")
	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/holdco")
	t.Setenv("HOLDCO_API_TOKEN", "")
	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatal("expected error without HOLDCO_API_TOKEN")
	}
}

func TestLoadCLIFromEnvTrimsBase(t *testing.T) {
	t.Setenv("HOLD_API_BASE_URL", "https://holdco.example.com/")
	cfg := LoadCLIFromEnv()
	if cfg.APIBaseURL != "https://holdco.example.com" {
		t.Fatalf("base url = %q", cfg.APIBaseURL)
	}
}

func TestEnvDurationDefaultFallsBack(t *testing.T) {
	t.Setenv("HOLDCO_REQUEST_TIMEOUT", "not-a-duration")
	if got := envDurationDefault("HOLDCO_REQUEST_TIMEOUT", time.Minute); got != time.Minute {
		t.Fatalf("got %v, want fallback", got)
	}
}
