package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "TOKEN_TTL", "DEV_ACTOR_HEADER", "CORS_ORIGINS", "LOG_FORMAT", "RATE_LIMIT", "RATE_LIMIT_WINDOW", "REGISTER_RATE_LIMIT"} {
		// Setenv registers the restore; Unsetenv gives Load a clean slate.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogFormat != "text" {
		t.Errorf("unexpected defaults: port=%s format=%s", cfg.Port, cfg.LogFormat)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.DevActorHeader {
		t.Error("DevActorHeader should default to false")
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("CORSOrigins = %v, want empty", cfg.CORSOrigins)
	}
	if cfg.RateLimit != 1000 || cfg.RateLimitWindow != 15*time.Minute || cfg.RegisterRateLimit != 20 {
		t.Errorf("rate limits = %d per %v, register %d", cfg.RateLimit, cfg.RateLimitWindow, cfg.RegisterRateLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://./data/test.db")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("DEV_ACTOR_HEADER", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://ledger.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != "sqlite://./data/test.db" || cfg.Port != "9090" {
		t.Errorf("unexpected db/port: %s %s", cfg.DatabaseURL, cfg.Port)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if !cfg.DevActorHeader {
		t.Error("expected DevActorHeader")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://ledger.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad TOKEN_TTL")
	}

	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("DEV_ACTOR_HEADER", "maybe")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad DEV_ACTOR_HEADER")
	}

	t.Setenv("DEV_ACTOR_HEADER", "false")
	t.Setenv("RATE_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero RATE_LIMIT")
	}

	t.Setenv("RATE_LIMIT", "100")
	t.Setenv("RATE_LIMIT_WINDOW", "-1m")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative RATE_LIMIT_WINDOW")
	}
}
