package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "staff-service" {
		t.Errorf("unexpected app name %q", cfg.App.Name)
	}
	if cfg.Location.BaseURL == "" {
		t.Error("location base URL must default")
	}
	if cfg.Location.Timeout() != 10*time.Second {
		t.Errorf("unexpected location timeout %v", cfg.Location.Timeout())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOCATION_SERVICE_URL", "http://location.internal:9000")
	t.Setenv("LOCATION_TIMEOUT_SECONDS", "3")
	t.Setenv("APP_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Location.BaseURL != "http://location.internal:9000" {
		t.Errorf("override ignored: %q", cfg.Location.BaseURL)
	}
	if cfg.Location.Timeout() != 3*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Location.Timeout())
	}
	if cfg.App.Addr() != "0.0.0.0:9999" {
		t.Errorf("unexpected addr %q", cfg.App.Addr())
	}
}

func TestLocationConfig_CacheTTL(t *testing.T) {
	if (LocationConfig{CacheTTLSeconds: 0}).CacheTTL() != 0 {
		t.Error("zero TTL disables caching")
	}
	if (LocationConfig{CacheTTLSeconds: 60}).CacheTTL() != time.Minute {
		t.Error("unexpected TTL")
	}
}
