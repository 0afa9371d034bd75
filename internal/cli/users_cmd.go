// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// users_cmd.go - User administration commands for the docvault CLI.
//
// Command: users
// Subcommands:
//   list               List all accounts
//   set-role <id>      Change an account's role (requires --role)
//
// The server enforces that only admins may call these endpoints; the
// CLI reports the resulting forbidden error rather than pre-checking.
//
// Examples:
//   docvault users list
//   docvault users set-role 7 --role editor

package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/docvault-tui/internal/model"
)

// HandleUsers dispatches the users subcommands.
func HandleUsers(args Args) error {
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	switch args.Subcommand {
	case "list", "ls", "":
		return handleUsersList(env, args)
	case "set-role", "role":
		return handleUsersSetRole(env, args)
	default:
		return usageErrorf("unknown users subcommand %q (expected list or set-role)", args.Subcommand)
	}
}

func handleUsersList(env *Env, args Args) error {
	ctx, cancel := env.RequestContext()
	defer cancel()

	users, err := env.Client.AllUsers(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(users)
	}

	if len(users) == 0 {
		fmt.Println(MutedStyle.Render("No accounts."))
		return nil
	}

	fmt.Printf("%-6s %-24s %-32s %s\n", "ID", "USERNAME", "EMAIL", "ROLE")
	for _, u := range users {
		fmt.Printf("%-6d %-24s %-32s %s\n",
			u.ID, truncateCell(u.Username, 24), truncateCell(u.Email, 32),
			u.Role().DisplayName())
	}
	return nil
}

func handleUsersSetRole(env *Env, args Args) error {
	if args.Target == "" {
		return usageErrorf("usage: docvault users set-role <id> --role admin|editor|viewer")
	}
	userID, err := strconv.Atoi(args.Target)
	if err != nil {
		return usageErrorf("invalid user id %q", args.Target)
	}

	role, ok := roleFromName(args.Options["role"])
	if !ok {
		return usageErrorf("invalid role %q (expected admin, editor, or viewer)", args.Options["role"])
	}

	ctx, cancel := env.RequestContext()
	defer cancel()

	updated, err := env.Client.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s is now %s\n",
		SuccessStyle.Render("[OK]"), updated.Username, updated.Role().DisplayName())
	return nil
}

// roleFromName maps a CLI role name to a Role value.
func roleFromName(name string) (model.Role, bool) {
	switch name {
	case "admin":
		return model.RoleAdmin, true
	case "editor":
		return model.RoleEditor, true
	case "viewer":
		return model.RoleViewer, true
	default:
		return model.RoleNone, false
	}
}
