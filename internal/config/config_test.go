package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("TOKEN_STORE", "")
	t.Setenv("SESSION_REFRESH_SPEC", "")
	t.Setenv("REALTIME_RECONNECT_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.Tokens.Backend != "memory" {
		t.Fatalf("unexpected token backend %q", cfg.Tokens.Backend)
	}
	if cfg.Session.RefreshSpec != "@every 5m" {
		t.Fatalf("unexpected refresh spec %q", cfg.Session.RefreshSpec)
	}
	if cfg.Realtime.ReconnectInterval() != 5*time.Second {
		t.Fatalf("unexpected reconnect interval %v", cfg.Realtime.ReconnectInterval())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://support.example.com/api")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("APP_HOST", "")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_REFRESH_WINDOW_MINUTES", "3")
	t.Setenv("TAG_DEBOUNCE_MILLIS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://support.example.com/api" || cfg.Tokens.Backend != "redis" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.App.Addr() != "0.0.0.0:9090" {
		t.Fatalf("unexpected addr %q", cfg.App.Addr())
	}
	if cfg.Session.RefreshWindow() != 3*time.Minute {
		t.Fatalf("unexpected refresh window %v", cfg.Session.RefreshWindow())
	}
	if cfg.Tagging.Debounce() != 500*time.Millisecond {
		t.Fatalf("invalid int should fall back, got %v", cfg.Tagging.Debounce())
	}
}

func TestLoadRejectsUnknownTokenStore(t *testing.T) {
	t.Setenv("TOKEN_STORE", "cookie")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestInvalidRedisDB(t *testing.T) {
	t.Setenv("TOKEN_STORE", "")
	t.Setenv("REDIS_DB", "x")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}
