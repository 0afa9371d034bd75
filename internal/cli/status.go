// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Client status command for the docvault CLI.
//
// Command: status
// Short:   Show client configuration, session state, and activity
//
// Examples:
//   docvault status
//   docvault status --json

package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/config"
)

// statusReport is the JSON shape of the status command output.
type statusReport struct {
	Version    string         `json:"version"`
	ServerURL  string         `json:"server_url"`
	ConfigPath string         `json:"config_path"`
	HasSession bool           `json:"has_session"`
	ExpiresIn  string         `json:"session_expires_in,omitempty"`
	Journal    bool           `json:"journal_enabled"`
	Activity   map[string]int `json:"activity,omitempty"`
}

// HandleStatus shows client and session status without touching the server.
func HandleStatus(args Args) error {
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	report := statusReport{
		Version:    Version,
		ServerURL:  env.Cfg.Server.BaseURL,
		HasSession: env.Store.HasTokens(),
		Journal:    env.Journal != nil,
	}
	if path, perr := config.ConfigPathTOML(); perr == nil {
		report.ConfigPath = path
	}
	if report.HasSession {
		if claims, cerr := auth.ParseClaims(env.Store.AccessToken()); cerr == nil {
			report.ExpiresIn = formatDuration(claims.ExpiresIn(time.Now()))
		}
	}
	if env.Journal != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		report.Activity, _ = env.Journal.CountByEvent(ctx)
		cancel()
	}

	if args.JSON {
		return outputJSON(report)
	}

	fmt.Println(TitleStyle.Render("docvault status"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Version"), ValueStyle.Render(report.Version))
	fmt.Printf("%s %s\n", LabelStyle.Render("Server"), ValueStyle.Render(report.ServerURL))
	fmt.Printf("%s %s\n", LabelStyle.Render("Config"), MutedStyle.Render(report.ConfigPath))

	if report.HasSession {
		session := "active"
		if report.ExpiresIn != "" {
			session = fmt.Sprintf("active, expires in %s", report.ExpiresIn)
		}
		fmt.Printf("%s %s\n", LabelStyle.Render("Session"), SuccessStyle.Render(session))
	} else {
		fmt.Printf("%s %s\n", LabelStyle.Render("Session"), MutedStyle.Render("not logged in"))
	}

	if len(report.Activity) > 0 {
		fmt.Printf("\n%s\n", ValueStyle.Render("Recent activity"))
		events := make([]string, 0, len(report.Activity))
		for event := range report.Activity {
			events = append(events, event)
		}
		sort.Strings(events)
		for _, event := range events {
			fmt.Printf("%s %d\n", LabelStyle.Render(event), report.Activity[event])
		}
	}
	return nil
}
