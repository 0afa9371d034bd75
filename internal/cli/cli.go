// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for docvault.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdRegister
	CmdWhoami
	CmdAsk
	CmdChat
	CmdFiles
	CmdUsers
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Server  string // Override server base URL for this invocation

	// Command-specific
	Query      string
	File       string
	Caption    string
	Username   string
	Target     string // Positional ID argument (file ID, user ID)
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g., --role)
	Options map[string]string
}

const usageText = `docvault %s - document vault client

Docvault is a terminal client for a document management service
with retrieval-augmented question answering.

It provides:
  - Login, registration, and encrypted local session storage
  - Role-aware dashboards (admin, editor, viewer)
  - Document upload and processing control
  - Question answering over processed documents

Usage:
  docvault                     Start TUI (default)
  docvault login [user]        Authenticate and store a session
  docvault logout              Revoke and clear the stored session
  docvault register            Create a new account
  docvault whoami              Show the authenticated profile
  docvault ask "question"      Ask a single question
  docvault chat                Interactive question loop
  docvault files [subcommand]  Document management
  docvault users [subcommand]  User administration (admins)
  docvault status, s           Show client and session status
  docvault config [show|set]   Configuration
  docvault version             Show version information
  docvault help                Show this help

File Commands:
  docvault files list               List uploaded documents
  docvault files upload <path>      Upload a document
    --caption TEXT                  Caption for the document (required)
  docvault files process <id>       Start processing an uploaded document

User Commands (admin role required):
  docvault users list               List all accounts
  docvault users set-role <id>      Change an account's role
    --role admin|editor|viewer      Role to assign (required)

Config Commands:
  docvault config show              Show current configuration
  docvault config set KEY VALUE    Set a configuration value
  docvault config path              Show configuration file location

Global Flags:
  --server URL        Override the server base URL
  --json              Output in JSON format (where supported)
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output

Examples:
  docvault login alice
  docvault files upload report.pdf --caption "Q3 report"
  docvault ask "What does the onboarding policy say about laptops?"
  docvault users set-role 7 --role editor

Environment:
  DOCVAULT_SERVER_URL   Server base URL (overrides config file)
  DOCVAULT_UPLOADS_DIR  Directory watched for upload candidates
  DOCVAULT_THEME        UI theme: auto, dark, light
  NO_COLOR              Disable colored output
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("docvault version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args means the TUI is the default entry point
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "login":
		if len(remaining) > 0 {
			parsedArgs.Username = remaining[0]
		}
		return CmdLogin, parsedArgs

	case "logout":
		return CmdLogout, parsedArgs

	case "register", "signup":
		return CmdRegister, parsedArgs

	case "whoami", "me":
		return CmdWhoami, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "files", "file", "docs":
		parseFilesArgs(&parsedArgs, remaining)
		return CmdFiles, parsedArgs

	case "users", "user":
		parseUsersArgs(&parsedArgs, remaining)
		return CmdUsers, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "--version", "-V":
		return CmdVersion, parsedArgs

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		PrintUsage()
		os.Exit(ExitUsageError)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags, returning the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--server":
			if i+1 < len(args) {
				i++
				parsedArgs.Server = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsedArgs.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string
	for _, arg := range remaining {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		query = append(query, arg)
	}
	args.Query = strings.Join(query, " ")
}

// parseFilesArgs parses files command arguments.
func parseFilesArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	rest := remaining[1:]

	i := 0
	for i < len(rest) {
		arg := rest[i]
		switch {
		case arg == "--caption":
			if i+1 < len(rest) {
				i++
				args.Caption = rest[i]
			}
		case strings.HasPrefix(arg, "--caption="):
			args.Caption = strings.TrimPrefix(arg, "--caption=")
		case args.File == "":
			args.File = arg
			args.Target = arg
		}
		i++
	}
}

// parseUsersArgs parses users command arguments.
func parseUsersArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "list"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	rest := remaining[1:]

	i := 0
	for i < len(rest) {
		arg := rest[i]
		switch {
		case arg == "--role":
			if i+1 < len(rest) {
				i++
				args.Options["role"] = rest[i]
			}
		case strings.HasPrefix(arg, "--role="):
			args.Options["role"] = strings.TrimPrefix(arg, "--role=")
		case args.Target == "":
			args.Target = arg
		}
		i++
	}
}

// parseConfigArgs parses config command arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	if args.Subcommand == "set" {
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}
