package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL is the admin API origin every request is resolved against.
const DefaultBaseURL = "https://d1dgpoid6t01jm.cloudfront.net/admin"

// BaseURLEnv overrides the configured base URL when set.
const BaseURLEnv = "FITADMIN_BASE_URL"

type Config struct {
	BaseURL        string `json:"base_url"`
	DBPath         string `json:"db_path"`
	LogPath        string `json:"log_path"`
	RequestTimeout int    `json:"request_timeout_seconds"`
	Debug          bool   `json:"debug"`
}

func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: 15,
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "fitadmin", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the config file at path. A missing file yields Default().
// Relative DB and log paths are filled in next to the config file.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if env := os.Getenv(BaseURLEnv); env != "" {
		config.BaseURL = env
	}
	config.normalize(filepath.Dir(path))
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Timeout is the per-request deadline. Zero or negative disables it.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c *Config) normalize(dir string) {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "fitadmin.db")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(dir, "fitadmin.log")
	}
}
