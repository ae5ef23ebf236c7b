package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
limits:
  free_swipes_per_day: 7
  free_adventures_per_month: 3
  default_timezone: America/Denver
amqp:
  exchange: events
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Limits.FreeSwipesPerDay != 7 {
		t.Fatalf("unexpected free swipes/day: %d", cfg.Limits.FreeSwipesPerDay)
	}
	if cfg.Limits.FreeAdventuresPerMonth != 3 {
		t.Fatalf("unexpected free adventures/month: %d", cfg.Limits.FreeAdventuresPerMonth)
	}
	if cfg.Limits.DefaultTimezone != "America/Denver" {
		t.Fatalf("unexpected timezone: %s", cfg.Limits.DefaultTimezone)
	}
	if cfg.AMQP.Exchange != "events" {
		t.Fatalf("unexpected amqp exchange: %s", cfg.AMQP.Exchange)
	}

	// Untouched sections keep their defaults.
	if cfg.Limits.FreePostsTotal != 5 {
		t.Fatalf("free_posts_total default should stay 5, got %d", cfg.Limits.FreePostsTotal)
	}
	if cfg.Auth.JWTAccessTTL != 24*time.Hour {
		t.Fatalf("jwt_access_ttl default should stay 24h, got %s", cfg.Auth.JWTAccessTTL)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr default should stay, got %s", cfg.Redis.Addr)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("POSTGRES_DSN", "postgres://env:env@db:5432/vanlife")
	t.Setenv("FREE_SWIPES_PER_DAY", "4")
	t.Setenv("JWT_ACCESS_TTL", "2h")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env http addr not applied: %s", cfg.HTTP.Addr)
	}
	if cfg.Postgres.DSN != "postgres://env:env@db:5432/vanlife" {
		t.Fatalf("env dsn not applied: %s", cfg.Postgres.DSN)
	}
	if cfg.Limits.FreeSwipesPerDay != 4 {
		t.Fatalf("env swipe limit not applied: %d", cfg.Limits.FreeSwipesPerDay)
	}
	if cfg.Auth.JWTAccessTTL != 2*time.Hour {
		t.Fatalf("env jwt ttl not applied: %s", cfg.Auth.JWTAccessTTL)
	}
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("REDIS_DB", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed REDIS_DB")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"AMQP_URL",
		"AMQP_EXCHANGE",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"FREE_SWIPES_PER_DAY",
		"FREE_POSTS_TOTAL",
		"FREE_ADVENTURES_PER_MONTH",
		"DEFAULT_TIMEZONE",
	} {
		t.Setenv(key, "")
	}
}
