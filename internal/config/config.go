// Package config loads and saves chatlytics configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all chatlytics configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Cache   CacheConfig   `toml:"cache"`
	Engine  EngineConfig  `toml:"engine"`
	Persist PersistConfig `toml:"persist"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir     string `toml:"data_dir,omitempty"`
	DefaultDays int    `toml:"default_days"`
}

// CacheConfig holds query-cache settings.
type CacheConfig struct {
	TTLMinutes int `toml:"ttl_minutes"`
	MaxEntries int `toml:"max_entries"`
}

// EngineConfig holds aggregation limits.
type EngineConfig struct {
	TopCategories int `toml:"top_categories"`
	TopQuestions  int `toml:"top_questions"`
	LabelMaxChars int `toml:"label_max_chars"`
}

// PersistConfig holds snapshot settings.
type PersistConfig struct {
	MaxSnapshotBytes int64 `toml:"max_snapshot_bytes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
		},
		Cache: CacheConfig{
			TTLMinutes: 5,
			MaxEntries: 50,
		},
		Engine: EngineConfig{
			TopCategories: 8,
			TopQuestions:  10,
			LabelMaxChars: 50,
		},
		Persist: PersistConfig{
			MaxSnapshotBytes: 5 << 20,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chatlytics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chatlytics")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir resolves the data directory: env var, then config, then the XDG
// data home default.
func (c Config) DataDir() string {
	if env := os.Getenv("CHATLYTICS_DATA_DIR"); env != "" {
		return env
	}
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "chatlytics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "chatlytics")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
