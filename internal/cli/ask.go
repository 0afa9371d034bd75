// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for the docvault CLI.
//
// Command: ask
// Short:   Ask a single question over the processed documents
//
// Examples:
//   docvault ask "What is the leave policy?"
//   docvault ask --json "Summarize the onboarding guide"
//
// USABILITY: Markdown rendering for readable terminal answers

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/docvault-tui/internal/ui/components"
)

// HandleAsk sends a single question and prints the rendered answer.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return usageErrorf("usage: docvault ask \"question\"")
	}

	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := env.RequestContext()
	profile, err := env.Auth.FetchProfile(ctx)
	cancel()
	if err != nil {
		return err
	}

	longCtx, cancel := env.LongRequestContext()
	defer cancel()

	result, err := env.Client.Query(longCtx, profile.ID, query)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(result)
	}

	renderer := components.NewAnswerRenderer(env.Cfg.UI.Markdown, GetTerminalWidth())
	fmt.Println(renderer.Render(result.Answer))
	return nil
}
