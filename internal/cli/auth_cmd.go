// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Session lifecycle commands for the docvault CLI.
//
// Commands: login, logout, register, whoami
//
// Examples:
//   docvault login alice          Authenticate as alice
//   docvault logout               Revoke and clear the stored session
//   docvault register             Create a new account interactively
//   docvault whoami               Show the authenticated profile
//   docvault whoami --json        Machine-readable profile output

package cli

import (
	"fmt"
	"time"

	"github.com/jeranaias/docvault-tui/internal/auth"
)

// HandleLogin authenticates against the server and stores the session.
func HandleLogin(args Args) error {
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	username := args.Username
	if username == "" {
		if err := RequiresTTY("log in"); err != nil {
			return err
		}
		username, err = promptInput(PromptStyle.Render("Username: "))
		if err != nil {
			return err
		}
	}

	password, err := ReadPassword(PromptStyle.Render("Password: "))
	if err != nil {
		return err
	}

	ctx, cancel := env.RequestContext()
	defer cancel()

	if err := env.Auth.Login(ctx, username, password); err != nil {
		return err
	}

	fmt.Printf("%s Logged in as %s\n", SuccessStyle.Render("[OK]"), username)
	return nil
}

// HandleLogout revokes the refresh token and clears the stored session.
func HandleLogout(args Args) error {
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.Store.HasTokens() {
		fmt.Println(MutedStyle.Render("No stored session."))
		return nil
	}

	ctx, cancel := env.RequestContext()
	defer cancel()

	// Local state is cleared even when revocation fails
	if err := env.Auth.Logout(ctx); err != nil {
		fmt.Printf("%s Local session cleared; server revocation failed: %v\n",
			WarningStyle.Render("[!]"), err)
		return nil
	}

	fmt.Printf("%s Logged out\n", SuccessStyle.Render("[OK]"))
	return nil
}

// HandleRegister creates a new account. It does not log in.
func HandleRegister(args Args) error {
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := RequiresTTY("register"); err != nil {
		return err
	}

	username, err := promptInput(PromptStyle.Render("Username: "))
	if err != nil {
		return err
	}
	email, err := promptInput(PromptStyle.Render("Email: "))
	if err != nil {
		return err
	}
	password, err := ReadPassword(PromptStyle.Render("Password: "))
	if err != nil {
		return err
	}
	confirm, err := ReadPassword(PromptStyle.Render("Confirm password: "))
	if err != nil {
		return err
	}

	// Reject obviously bad input, mismatched confirmation included,
	// before any network call
	if err := auth.ValidateRegistration(username, email, password, confirm); err != nil {
		return err
	}

	ctx, cancel := env.RequestContext()
	defer cancel()

	if err := env.Auth.Register(ctx, username, email, password, confirm); err != nil {
		return err
	}

	fmt.Printf("%s Account created. Run 'docvault login %s' to sign in.\n",
		SuccessStyle.Render("[OK]"), username)
	return nil
}

// HandleWhoami shows the authenticated user's profile.
func HandleWhoami(args Args) error {
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := env.RequestContext()
	defer cancel()

	profile, err := env.Auth.FetchProfile(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(profile)
	}

	fmt.Println(TitleStyle.Render("Profile"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Username"), ValueStyle.Render(profile.Username))
	fmt.Printf("%s %s\n", LabelStyle.Render("Email"), ValueStyle.Render(profile.Email))
	fmt.Printf("%s %s\n", LabelStyle.Render("Role"), ValueStyle.Render(profile.Role().DisplayName()))
	fmt.Printf("%s %d\n", LabelStyle.Render("User ID"), profile.ID)

	if claims, cerr := auth.ParseClaims(env.Store.AccessToken()); cerr == nil {
		fmt.Printf("%s %s\n", LabelStyle.Render("Session"),
			MutedStyle.Render("expires in "+formatDuration(claims.ExpiresIn(time.Now()))))
	}
	return nil
}
