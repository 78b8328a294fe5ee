package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.API.Port)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.Issuer != "jobportal" {
		t.Fatalf("unexpected issuer %q", cfg.Auth.Issuer)
	}
	if got := cfg.Redis.Addr(); got != "localhost:6379" {
		t.Fatalf("unexpected redis addr %q", got)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("API_PORT", "9090")
	t.Setenv("AUTH_TOKEN_TTL", "30m")
	t.Setenv("AUTH_LOGIN_LOCK_TTL", "1h")
	t.Setenv("POSTGRES_DB", "portal_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.API.Port)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Fatalf("expected ttl 30m, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.LoginLockTTL != time.Hour {
		t.Fatalf("expected lock ttl 1h, got %s", cfg.Auth.LoginLockTTL)
	}
	if !strings.Contains(cfg.Database.DSN(), "dbname=portal_test") {
		t.Fatalf("dsn missing database name: %s", cfg.Database.DSN())
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
}
