// Package config loads user preferences from the platform config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds user preferences.
type Config struct {
	Backend string `yaml:"backend"`  // sqlite | file
	DataDir string `yaml:"data_dir"` // override for the state location

	LogLevel   string `yaml:"log_level"` // DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file"`
	LogConsole bool   `yaml:"log_console"`
}

// Default returns the built-in settings.
func Default() *Config {
	dir, _ := DefaultDataDir()
	logPath := ""
	if dir != "" {
		logPath = filepath.Join(dir, "planline.log")
	}
	return &Config{
		Backend:    BackendSQLite,
		LogLevel:   getEnv("PLANLINE_LOG_LEVEL", "INFO"),
		LogFile:    getEnv("PLANLINE_LOG_FILE", logPath),
		LogConsole: getEnv("PLANLINE_LOG_CONSOLE", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DefaultDataDir returns the planline directory under the user config dir.
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "planline"), nil
}

func configPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads config.yaml, falling back to defaults when the file is absent.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Backend != BackendSQLite && cfg.Backend != BackendFile {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	return cfg, nil
}

// Save writes the config to config.yaml, creating the directory if needed.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
