// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface functionality.
// This file contains shared helper functions used across multiple CLI commands.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/config"
	"github.com/jeranaias/docvault-tui/internal/files"
	"github.com/jeranaias/docvault-tui/internal/storage"
)

// =============================================================================
// SHARED COMMAND ENVIRONMENT
// =============================================================================

// Env bundles the client-side services a CLI command needs.
type Env struct {
	Cfg     *config.Config
	Store   *storage.TokenStore
	Client  *api.Client
	Journal *storage.Journal // nil when disabled or unavailable
	Auth    *auth.Controller
	Tracker *files.Tracker
}

// NewEnv loads configuration and wires up the shared services.
// A corrupt token file is reported but does not block the command.
func NewEnv(args Args) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewTokenStore(dir)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptTokens) {
			return nil, err
		}
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Stored session was unreadable and has been discarded."))
	}

	client := api.NewClient(cfg.Server.BaseURL, store).WithMaxRetries(cfg.Server.MaxRetries)

	var journal *storage.Journal
	if cfg.Journal.Enabled {
		if path, perr := cfg.JournalPath(); perr == nil {
			// Journal failures never block the actual command
			journal, _ = storage.OpenJournal(path)
		}
	}

	return &Env{
		Cfg:     cfg,
		Store:   store,
		Client:  client,
		Journal: journal,
		Auth:    auth.NewController(client, store, journal),
		Tracker: files.NewTracker(client, journal),
	}, nil
}

// Close releases resources held by the environment.
func (e *Env) Close() {
	if e.Journal != nil {
		e.Journal.Close()
	}
}

// RequestContext returns a context bounded by the configured server timeout.
func (e *Env) RequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.Cfg.Server.Timeout())
}

// LongRequestContext returns a context for uploads and generation calls,
// which routinely take longer than plain API requests.
func (e *Env) LongRequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*e.Cfg.Server.Timeout())
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatDuration formats a time.Duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// formatBytes formats a byte count for display.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// outputJSON outputs data as indented JSON on stdout.
func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// promptInput prompts the user for a single line of input.
func promptInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
