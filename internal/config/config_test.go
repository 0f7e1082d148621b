package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.SweepInterval != 10*time.Minute || cfg.OrderExpiry != 15*time.Minute {
		t.Fatalf("unexpected sweep defaults %v/%v", cfg.SweepInterval, cfg.OrderExpiry)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("unexpected cache ttl %v", cfg.CacheTTL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("ORDER_EXPIRY_SECONDS", "120")
	t.Setenv("SWEEP_INTERVAL_SECONDS", "not-a-number")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.OrderExpiry != 2*time.Minute {
		t.Fatalf("unexpected expiry %v", cfg.OrderExpiry)
	}
	if cfg.SweepInterval != 10*time.Minute {
		t.Fatalf("bad duration must fall back to default, got %v", cfg.SweepInterval)
	}
}
