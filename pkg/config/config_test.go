package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DAILY_NEWS_SOURCE_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Harvest.SourceURL != DefaultSourceURL {
		t.Errorf("Unexpected default source URL: %q", cfg.Harvest.SourceURL)
	}
	if cfg.Harvest.WindowHours != 24 || cfg.Harvest.MaxFeeds != 92 || cfg.Harvest.MaxPerSource != 2 {
		t.Errorf("Unexpected harvest defaults: %+v", cfg.Harvest)
	}
	if cfg.Harvest.MaxWorkers != 12 {
		t.Errorf("Expected 12 default workers, got %d", cfg.Harvest.MaxWorkers)
	}
	if cfg.Output.Dir != "outputs" {
		t.Errorf("Unexpected default output dir: %q", cfg.Output.Dir)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `harvest:
  source_url: https://example.com/feeds
  window_hours: 0.5
  max_feeds: 3
output:
  dir: /tmp/daily
  material_group_name: Morning Batch
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Harvest.SourceURL != "https://example.com/feeds" {
		t.Errorf("Unexpected source URL: %q", cfg.Harvest.SourceURL)
	}
	if cfg.Harvest.WindowHours != 0.5 {
		t.Errorf("Expected fractional window honored, got %v", cfg.Harvest.WindowHours)
	}
	if cfg.Harvest.MaxFeeds != 3 {
		t.Errorf("Unexpected max feeds: %d", cfg.Harvest.MaxFeeds)
	}
	// Unset YAML keys keep their defaults.
	if cfg.Harvest.MaxPerSource != 2 {
		t.Errorf("Expected default max per source preserved, got %d", cfg.Harvest.MaxPerSource)
	}
	if cfg.Output.Dir != "/tmp/daily" || cfg.Output.MaterialGroupName != "Morning Batch" {
		t.Errorf("Unexpected output config: %+v", cfg.Output)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DAILY_NEWS_SOURCE_URL", "https://env.example/list")
	t.Setenv("DAILY_NEWS_WINDOW_HOURS", "2.5")
	t.Setenv("DAILY_NEWS_OUTPUT_DIR", "env-outputs")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Harvest.SourceURL != "https://env.example/list" {
		t.Errorf("Expected env source URL, got %q", cfg.Harvest.SourceURL)
	}
	if cfg.Harvest.WindowHours != 2.5 {
		t.Errorf("Expected env window hours, got %v", cfg.Harvest.WindowHours)
	}
	if cfg.Output.Dir != "env-outputs" {
		t.Errorf("Expected env output dir, got %q", cfg.Output.Dir)
	}
}

func TestLoad_Validation(t *testing.T) {
	writeConfig := func(body string) string {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		return path
	}

	if _, err := Load(writeConfig("harvest:\n  window_hours: -1\n")); err == nil {
		t.Error("Expected error for negative window")
	}
	if _, err := Load(writeConfig("harvest:\n  max_workers: 0\n")); err == nil {
		t.Error("Expected error for zero workers")
	}
	if _, err := Load(writeConfig("harvest:\n  source_url: \"\"\n")); err == nil {
		t.Error("Expected error when no source is configured")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}
