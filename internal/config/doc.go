// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for docvault.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Backend server URL, timeout, and retry settings
//   - UIConfig: Theme and rendering preferences
//   - UploadsConfig: Upload pick-up directory and watch toggle
//   - JournalConfig: Local activity journal settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DOCVAULT_*)
//   - ~/.docvault/config.toml
//   - ~/.docvault/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	url := cfg.Server.BaseURL
//	timeout := cfg.Server.Timeout()
package config
