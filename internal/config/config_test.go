package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "7070" {
		t.Fatalf("expected default port 7070, got %s", cfg.Port)
	}
	if cfg.Address() != ":7070" {
		t.Fatalf("expected :7070, got %s", cfg.Address())
	}
	if cfg.SyncIntervalSeconds != 30 {
		t.Fatalf("expected default sync interval 30, got %d", cfg.SyncIntervalSeconds)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OUTLET_ID", "store-7")
	t.Setenv("SYNC_INTERVAL_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" || cfg.OutletID != "store-7" {
		t.Fatalf("expected overrides applied, got %+v", cfg)
	}
	if cfg.SyncIntervalSeconds != 30 {
		t.Fatalf("expected invalid interval to fall back to 30, got %d", cfg.SyncIntervalSeconds)
	}
}
