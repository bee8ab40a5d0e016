package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != "8085" {
		t.Errorf("Port = %s, want 8085", cfg.Server.Port)
	}
	if cfg.Import.BatchSize != 50 {
		t.Errorf("BatchSize = %d, want 50", cfg.Import.BatchSize)
	}
	if cfg.Import.StatusPolicy != "lenient" || cfg.Import.DatePolicy != "clamp" {
		t.Errorf("policies = %s/%s, want lenient/clamp", cfg.Import.StatusPolicy, cfg.Import.DatePolicy)
	}
	if cfg.Cleanup.RetentionDays != 90 {
		t.Errorf("RetentionDays = %d, want 90", cfg.Cleanup.RetentionDays)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}
	if cfg.Slack.Enabled {
		t.Error("Slack should be disabled by default")
	}
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no_such.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8085" {
		t.Errorf("missing file should yield defaults, got port %s", cfg.Server.Port)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	yaml := `
server:
  port: "9090"
  admin_token: secret
import:
  batch_size: 25
  status_policy: strict
slack:
  enabled: true
  webhook_url: https://hooks.slack.com/services/T000/B000/XXXX
  timeout_seconds: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.AdminToken != "secret" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Import.BatchSize != 25 || cfg.Import.StatusPolicy != "strict" {
		t.Errorf("import = %+v", cfg.Import)
	}
	// Untouched keys keep their defaults
	if cfg.Import.DatePolicy != "clamp" {
		t.Errorf("DatePolicy = %s, want default clamp", cfg.Import.DatePolicy)
	}
	if !cfg.Slack.Enabled || cfg.Slack.GetTimeout() != 2*time.Second {
		t.Errorf("slack = %+v", cfg.Slack)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not: valid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGetBatchDelay(t *testing.T) {
	ic := ImportConfig{BatchDelayMs: 150}
	if ic.GetBatchDelay() != 150*time.Millisecond {
		t.Errorf("GetBatchDelay = %v", ic.GetBatchDelay())
	}
}
