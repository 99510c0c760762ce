package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr            string
	DatabaseURL     string
	APIToken        string
	RefdataPath     string
	DefaultMode     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type CLIConfig struct {
	APIBaseURL  string
	RefdataPath string
	ColorOutput bool
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("HOLDCO_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:            addr,
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		APIToken:        strings.TrimSpace(os.Getenv("HOLDCO_API_TOKEN")),
		RefdataPath:     envDefault("HOLDCO_REFDATA_PATH", ""),
		DefaultMode:     envDefault("HOLDCO_DEFAULT_MODE", "standard_10"),
		RequestTimeout:  envDurationDefault("HOLDCO_REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: envDurationDefault("HOLDCO_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.APIToken == "" {
		return cfg, fmt.Errorf("HOLDCO_API_TOKEN is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL:  strings.TrimRight(envDefault("HOLD_API_BASE_URL", "http://localhost:8080"), "/"),
		RefdataPath: envDefault("HOLD_REFDATA_PATH", ""),
		ColorOutput: envBoolDefault("HOLD_COLOR", true),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
