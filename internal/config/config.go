// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for docvault.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults and environment variable overrides.
//
// Configuration file locations (in order of precedence):
//   - ~/.docvault/config.toml
//   - ~/.docvault/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/docvault-tui/internal/util"
)

// appDirName is the per-user application directory under $HOME.
const appDirName = ".docvault"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docvault configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Server configuration
	Server ServerConfig `toml:"server" json:"server"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Uploads configuration
	Uploads UploadsConfig `toml:"uploads" json:"uploads"`

	// Journal configuration
	Journal JournalConfig `toml:"journal" json:"journal"`
}

// ServerConfig contains backend connection configuration.
type ServerConfig struct {
	// BaseURL is the DocVault backend base URL, e.g.
	// "https://docvault.example.com". The /api/... paths are appended
	// by the client.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the retry budget for transient backend failures.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", or "auto".
	Theme string `toml:"theme" json:"theme"`
	// Markdown enables rendered markdown for chat answers. When false
	// answers print as plain text.
	Markdown bool `toml:"markdown" json:"markdown"`
	// CompactTables collapses table padding on narrow terminals.
	CompactTables bool `toml:"compact_tables" json:"compact_tables"`
}

// UploadsConfig contains document pick-up configuration.
type UploadsConfig struct {
	// Dir is the local directory scanned for upload candidates.
	// Default: ~/.docvault/outbox
	Dir string `toml:"dir" json:"dir"`
	// Watch enables the live directory watcher in the editor view.
	Watch bool `toml:"watch" json:"watch"`
}

// JournalConfig contains local activity journal configuration.
type JournalConfig struct {
	// Enabled turns journal recording on.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the journal database path (empty = ~/.docvault/journal.db).
	Path string `toml:"path" json:"path"`
	// RetainDays is how long entries are kept before pruning.
	RetainDays int `toml:"retain_days" json:"retain_days"`
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	if s.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 30,
			MaxRetries:  2,
		},
		UI: UIConfig{
			Theme:         "auto",
			Markdown:      true,
			CompactTables: false,
		},
		Uploads: UploadsConfig{
			Dir:   "",
			Watch: true,
		},
		Journal: JournalConfig{
			Enabled:    true,
			Path:       "",
			RetainDays: 90,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the docvault configuration directory.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName), nil
}

// ConfigPathTOML returns the path of the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path of the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the configuration directory if missing.
// Tokens live here too, so the directory is user-only.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// UploadsDir returns the effective upload pick-up directory.
func (c *Config) UploadsDir() (string, error) {
	if c.Uploads.Dir != "" {
		return c.Uploads.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "outbox"), nil
}

// JournalPath returns the effective journal database path.
func (c *Config) JournalPath() (string, error) {
	if c.Journal.Path != "" {
		return c.Journal.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration with the standard precedence: TOML
// file, then JSON file, then defaults. Environment overrides are
// applied last. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return nil, err
	}

	switch {
	case fileExists(tomlPath):
		if err := LoadTOML(cfg, tomlPath); err != nil {
			return nil, err
		}
	case fileExists(jsonPath):
		if err := LoadJSON(cfg, jsonPath); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML merges a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadJSON merges a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadFromPath loads a config from an explicit file, picking the
// format by extension. Used by --config style overrides and tests.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	case ".json":
		if err := LoadJSON(cfg, path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides.
// DOCVAULT_SERVER_URL wins over any file setting.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCVAULT_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("DOCVAULT_UPLOADS_DIR"); v != "" {
		c.Uploads.Dir = v
	}
	if v := os.Getenv("DOCVAULT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration as TOML to the standard location.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("server.base_url: %q is not a valid http(s) URL", c.Server.BaseURL))
		}
	}
	if c.Server.TimeoutSecs < 0 {
		errs = append(errs, "server.timeout_secs: must not be negative")
	}
	if c.Server.MaxRetries < 0 {
		errs = append(errs, "server.max_retries: must not be negative")
	}
	switch c.UI.Theme {
	case "dark", "light", "auto", "":
	default:
		errs = append(errs, fmt.Sprintf("ui.theme: %q is not one of dark, light, auto", c.UI.Theme))
	}
	if c.Journal.RetainDays < 0 {
		errs = append(errs, "journal.retain_days: must not be negative")
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
