// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration commands for the docvault CLI.
//
// Command: config
// Subcommands:
//   show               Show the effective configuration
//   set KEY VALUE      Set a value and save the config file
//   path               Show the config file location
//
// Examples:
//   docvault config show
//   docvault config set server.base_url https://vault.example.com
//   docvault config set ui.theme dark

package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/docvault-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "show", "":
		return handleConfigShow(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return usageErrorf("unknown config subcommand %q (expected show, set, or path)", args.Subcommand)
	}
}

func handleConfigShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(cfg)
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s %s\n", LabelStyle.Render("server.base_url"), ValueStyle.Render(cfg.Server.BaseURL))
	fmt.Printf("%s %d\n", LabelStyle.Render("server.timeout_secs"), cfg.Server.TimeoutSecs)
	fmt.Printf("%s %d\n", LabelStyle.Render("server.max_retries"), cfg.Server.MaxRetries)
	fmt.Printf("%s %s\n", LabelStyle.Render("ui.theme"), ValueStyle.Render(cfg.UI.Theme))
	fmt.Printf("%s %t\n", LabelStyle.Render("ui.markdown"), cfg.UI.Markdown)
	fmt.Printf("%s %s\n", LabelStyle.Render("uploads.dir"), ValueStyle.Render(cfg.Uploads.Dir))
	fmt.Printf("%s %t\n", LabelStyle.Render("uploads.watch"), cfg.Uploads.Watch)
	fmt.Printf("%s %t\n", LabelStyle.Render("journal.enabled"), cfg.Journal.Enabled)
	fmt.Printf("%s %d\n", LabelStyle.Render("journal.retain_days"), cfg.Journal.RetainDays)
	return nil
}

func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return usageErrorf("usage: docvault config set KEY VALUE")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := applyConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	return nil
}

// applyConfigValue sets a single dotted-key value on the config.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "server.base_url":
		cfg.Server.BaseURL = value
	case "server.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return usageErrorf("%s requires an integer value", key)
		}
		cfg.Server.TimeoutSecs = n
	case "server.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return usageErrorf("%s requires an integer value", key)
		}
		cfg.Server.MaxRetries = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return usageErrorf("%s requires true or false", key)
		}
		cfg.UI.Markdown = b
	case "uploads.dir":
		cfg.Uploads.Dir = value
	case "uploads.watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return usageErrorf("%s requires true or false", key)
		}
		cfg.Uploads.Watch = b
	case "journal.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return usageErrorf("%s requires true or false", key)
		}
		cfg.Journal.Enabled = b
	case "journal.retain_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return usageErrorf("%s requires an integer value", key)
		}
		cfg.Journal.RetainDays = n
	default:
		return usageErrorf("unknown config key %q", key)
	}
	return nil
}
