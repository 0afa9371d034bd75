// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"

	"github.com/jeranaias/docvault-tui/internal/api"
	"github.com/jeranaias/docvault-tui/internal/auth"
)

// =============================================================================
// FLAG PARSING TESTS
// =============================================================================

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		remaining int
		check     func(t *testing.T, a Args)
	}{
		{
			name:      "short quiet",
			args:      []string{"-q", "status"},
			remaining: 1,
			check:     func(t *testing.T, a Args) { mustTrue(t, a.Quiet, "Quiet") },
		},
		{
			name:      "long verbose and json",
			args:      []string{"--verbose", "--json", "whoami"},
			remaining: 1,
			check: func(t *testing.T, a Args) {
				mustTrue(t, a.Verbose, "Verbose")
				mustTrue(t, a.JSON, "JSON")
			},
		},
		{
			name:      "server with separate value",
			args:      []string{"--server", "https://a.example.com", "status"},
			remaining: 1,
			check: func(t *testing.T, a Args) {
				if a.Server != "https://a.example.com" {
					t.Errorf("Server = %q", a.Server)
				}
			},
		},
		{
			name:      "server with equals",
			args:      []string{"--server=https://b.example.com"},
			remaining: 0,
			check: func(t *testing.T, a Args) {
				if a.Server != "https://b.example.com" {
					t.Errorf("Server = %q", a.Server)
				}
			},
		},
		{
			name:      "server flag without value dropped",
			args:      []string{"status", "--server"},
			remaining: 1,
			check: func(t *testing.T, a Args) {
				if a.Server != "" {
					t.Errorf("Server = %q, want empty", a.Server)
				}
			},
		},
		{
			name:      "non-flags pass through in order",
			args:      []string{"files", "-q", "upload", "report.pdf"},
			remaining: 3,
			check:     func(t *testing.T, a Args) { mustTrue(t, a.Quiet, "Quiet") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, parsed := parseGlobalFlags(tt.args)
			if len(remaining) != tt.remaining {
				t.Errorf("remaining = %v, want %d args", remaining, tt.remaining)
			}
			tt.check(t, parsed)
		})
	}
}

func mustTrue(t *testing.T, v bool, name string) {
	t.Helper()
	if !v {
		t.Errorf("%s not set", name)
	}
}

// =============================================================================
// COMMAND ARGUMENT TESTS
// =============================================================================

func TestParseAskArgs(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"what", "is", "the", "leave", "policy"})
	if args.Query != "what is the leave policy" {
		t.Errorf("Query = %q", args.Query)
	}

	args = Args{}
	parseAskArgs(&args, nil)
	if args.Query != "" {
		t.Errorf("Query = %q, want empty", args.Query)
	}
}

func TestParseFilesArgs(t *testing.T) {
	tests := []struct {
		name       string
		remaining  []string
		subcommand string
		file       string
		caption    string
	}{
		{"bare defaults to list", nil, "list", "", ""},
		{"explicit list", []string{"list"}, "list", "", ""},
		{"upload with caption flag", []string{"upload", "report.pdf", "--caption", "Q3 report"}, "upload", "report.pdf", "Q3 report"},
		{"upload with caption equals", []string{"upload", "--caption=notes", "report.pdf"}, "upload", "report.pdf", "notes"},
		{"process positional id", []string{"process", "12"}, "process", "12", ""},
		{"mixed case subcommand", []string{"Upload", "a.pdf"}, "upload", "a.pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Args{Options: make(map[string]string)}
			parseFilesArgs(&args, tt.remaining)
			if args.Subcommand != tt.subcommand {
				t.Errorf("Subcommand = %q, want %q", args.Subcommand, tt.subcommand)
			}
			if args.File != tt.file {
				t.Errorf("File = %q, want %q", args.File, tt.file)
			}
			if args.Caption != tt.caption {
				t.Errorf("Caption = %q, want %q", args.Caption, tt.caption)
			}
			if tt.file != "" && args.Target != tt.file {
				t.Errorf("Target = %q, want %q", args.Target, tt.file)
			}
		})
	}
}

func TestParseUsersArgs(t *testing.T) {
	args := Args{Options: make(map[string]string)}
	parseUsersArgs(&args, []string{"set-role", "7", "--role", "editor"})
	if args.Subcommand != "set-role" || args.Target != "7" || args.Options["role"] != "editor" {
		t.Errorf("parsed = %+v", args)
	}

	args = Args{Options: make(map[string]string)}
	parseUsersArgs(&args, []string{"set-role", "--role=viewer", "3"})
	if args.Target != "3" || args.Options["role"] != "viewer" {
		t.Errorf("parsed = %+v", args)
	}

	args = Args{Options: make(map[string]string)}
	parseUsersArgs(&args, nil)
	if args.Subcommand != "list" {
		t.Errorf("Subcommand = %q, want list", args.Subcommand)
	}
}

func TestParseConfigArgs(t *testing.T) {
	args := Args{}
	parseConfigArgs(&args, []string{"set", "ui.theme", "dark"})
	if args.Subcommand != "set" || args.ConfigKey != "ui.theme" || args.ConfigVal != "dark" {
		t.Errorf("parsed = %+v", args)
	}

	args = Args{}
	parseConfigArgs(&args, nil)
	if args.Subcommand != "show" {
		t.Errorf("Subcommand = %q, want show", args.Subcommand)
	}
}

// =============================================================================
// TABLE RENDERING TESTS
// =============================================================================

func TestTruncateCell(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "report.pdf", 32, "report.pdf"},
		{"ascii truncated", "a-very-long-document-name.pdf", 12, "a-very-lo..."},
		{"multibyte truncated", "日本語のドキュメント.pdf", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateCell(tt.in, tt.width); got != tt.want {
				t.Errorf("truncateCell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

// =============================================================================
// EXIT CODE TESTS
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage error", usageErrorf("bad flag"), ExitUsageError},
		{"validation error", &auth.ValidationError{Field: "username", Message: "empty"}, ExitUsageError},
		{"auth required", api.ErrAuthRequired, ExitAuthError},
		{"auth failed wrapped", errors.Join(errors.New("outer"), api.ErrAuthFailed), ExitAuthError},
		{"forbidden", api.ErrForbidden, ExitAuthError},
		{"not found", api.ErrNotFound, ExitNotFoundError},
		{"server error", api.ErrServerError, ExitNetworkError},
		{"plain error", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
