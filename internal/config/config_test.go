package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.General.DefaultDays != 30 {
		t.Errorf("DefaultDays = %d, want 30", cfg.General.DefaultDays)
	}
	if cfg.Cache.TTLMinutes != 5 || cfg.Cache.MaxEntries != 50 {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Engine.TopCategories != 8 || cfg.Engine.TopQuestions != 10 {
		t.Errorf("engine defaults = %+v", cfg.Engine)
	}
	if cfg.Persist.MaxSnapshotBytes != 5<<20 {
		t.Errorf("MaxSnapshotBytes = %d", cfg.Persist.MaxSnapshotBytes)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if Exists() {
		t.Error("Exists() = true for missing config")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DataDir = "/srv/chatlytics"
	cfg.General.DefaultDays = 7
	cfg.Cache.TTLMinutes = 1

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip: got %+v, want %+v", loaded, cfg)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "chatlytics", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("general = [broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestDataDirResolution(t *testing.T) {
	t.Setenv("CHATLYTICS_DATA_DIR", "")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	var cfg Config
	if got := cfg.DataDir(); got != filepath.Join("/xdg/data", "chatlytics") {
		t.Errorf("xdg fallback = %q", got)
	}

	cfg.General.DataDir = "/from/config"
	if got := cfg.DataDir(); got != "/from/config" {
		t.Errorf("config value = %q", got)
	}

	t.Setenv("CHATLYTICS_DATA_DIR", "/from/env")
	if got := cfg.DataDir(); got != "/from/env" {
		t.Errorf("env override = %q", got)
	}
}
