package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Source.Vintages) != 8 {
		t.Errorf("expected 8 default vintages, got %d", len(cfg.Source.Vintages))
	}
	if cfg.Source.Vintages[0].Name != "2019" {
		t.Errorf("expected newest vintage first, got %s", cfg.Source.Vintages[0].Name)
	}
	if cfg.Output.Dir != "data" {
		t.Errorf("expected default output dir data, got %s", cfg.Output.Dir)
	}
	if !cfg.Build.Validate {
		t.Error("expected validation on by default")
	}
	if cfg.Build.PruneSchedules {
		t.Error("expected schedule pruning off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing source dir",
			modify:  func(c *Config) { c.Source.Dir = "" },
			wantErr: true,
		},
		{
			name:    "missing output dir",
			modify:  func(c *Config) { c.Output.Dir = "" },
			wantErr: true,
		},
		{
			name:    "no vintages",
			modify:  func(c *Config) { c.Source.Vintages = nil },
			wantErr: true,
		},
		{
			name: "duplicate vintage",
			modify: func(c *Config) {
				c.Source.Vintages = append(c.Source.Vintages, c.Source.Vintages[0])
			},
			wantErr: true,
		},
		{
			name:    "vintage without dir",
			modify:  func(c *Config) { c.Source.Vintages[1].Dir = "" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	if err != nil {
		t.Fatalf("ParseLevel() error = %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("expected debug, got %v", level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
source:
  dir: "/data/standards"
  vintages:
    - name: "2013"
      dir: "ashrae_90_1_2013"
output:
  dir: "/tmp/out"
build:
  prune_schedules: true
  validate: false
library:
  metrics: true
log:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Source.Dir != "/data/standards" {
		t.Errorf("expected source dir /data/standards, got %s", cfg.Source.Dir)
	}
	if len(cfg.Source.Vintages) != 1 || cfg.Source.Vintages[0].Dir != "ashrae_90_1_2013" {
		t.Errorf("expected a single 2013 vintage, got %v", cfg.Source.Vintages)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("expected output dir /tmp/out, got %s", cfg.Output.Dir)
	}
	if !cfg.Build.PruneSchedules {
		t.Error("expected prune_schedules on")
	}
	if cfg.Build.Validate {
		t.Error("expected validate to be switched off")
	}
	if !cfg.Library.Metrics {
		t.Error("expected metrics on")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestOverlayKeepsAbsentKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  dir: out\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.Overlay(configPath); err != nil {
		t.Fatalf("Overlay() error = %v", err)
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("expected output dir out, got %s", cfg.Output.Dir)
	}
	if len(cfg.Source.Vintages) != 8 {
		t.Errorf("expected default vintages to remain, got %d", len(cfg.Source.Vintages))
	}
	if !cfg.Build.Validate {
		t.Error("expected validate to remain on")
	}
}

func TestSelectVintages(t *testing.T) {
	cfg := DefaultConfig()

	all, err := cfg.SelectVintages()
	if err != nil {
		t.Fatalf("SelectVintages() error = %v", err)
	}
	if len(all) != 8 {
		t.Errorf("expected every vintage, got %d", len(all))
	}

	some, err := cfg.SelectVintages("2004", "2013")
	if err != nil {
		t.Fatalf("SelectVintages() error = %v", err)
	}
	if len(some) != 2 || some[0].Dir != "ashrae_90_1_2004" {
		t.Errorf("unexpected selection %v", some)
	}

	if _, err := cfg.SelectVintages("1066"); err == nil {
		t.Error("expected error for unknown vintage")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Dir = "saved"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Output.Dir != "saved" {
		t.Errorf("expected output dir saved, got %s", loaded.Output.Dir)
	}
	if len(loaded.Source.Vintages) != len(cfg.Source.Vintages) {
		t.Errorf("expected %d vintages, got %d", len(cfg.Source.Vintages), len(loaded.Source.Vintages))
	}
}

func TestLoaderPrecedence(t *testing.T) {
	home := t.TempDir()
	work := filepath.Join(t.TempDir(), "project", "nested")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}

	userConfig := filepath.Join(home, UserConfigDir, UserConfigFile)
	if err := os.MkdirAll(filepath.Dir(userConfig), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userConfig, []byte("output:\n  dir: user-out\nlog:\n  level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	projectConfig := filepath.Join(filepath.Dir(work), ProjectConfigFile)
	if err := os.WriteFile(projectConfig, []byte("output:\n  dir: project-out\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(nil)
	loader.HomeDir = home
	loader.WorkDir = work

	cfg, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "project-out" {
		t.Errorf("expected project config to win, got %s", cfg.Output.Dir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected user log level to remain, got %s", cfg.Log.Level)
	}

	t.Setenv(EnvOutputDir, "env-out")
	t.Setenv(EnvSourceDir, "/env/source")
	cfg, err = loader.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "env-out" {
		t.Errorf("expected environment to win, got %s", cfg.Output.Dir)
	}
	if cfg.Source.Dir != "/env/source" {
		t.Errorf("expected source dir from environment, got %s", cfg.Source.Dir)
	}
}

func TestLoaderExplicitMissing(t *testing.T) {
	loader := NewLoader(nil)
	loader.HomeDir = t.TempDir()
	loader.WorkDir = t.TempDir()

	if _, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	loader := NewLoader(nil)
	loader.HomeDir = t.TempDir()

	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(loader.HomeDir, UserConfigDir, UserConfigFile)); err != nil {
		t.Errorf("user config was not created: %v", err)
	}
}
