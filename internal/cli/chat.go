// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive question loop for the docvault CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles the "docvault chat" command which provides an interactive REPL
// for asking questions over the processed documents.
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /history            Show the server-side conversation history
//   /files              List processed documents
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/docvault-tui/internal/config"
	"github.com/jeranaias/docvault-tui/internal/model"
	"github.com/jeranaias/docvault-tui/internal/ui/components"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_input_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the interactive question loop.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
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

	input := NewChatCLI()
	defer input.Close()

	renderer := components.NewAnswerRenderer(env.Cfg.UI.Markdown, GetTerminalWidth())
	transcript := model.NewTranscript()

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("docvault chat"))
		fmt.Printf("%s\n\n", MutedStyle.Render(
			fmt.Sprintf("Signed in as %s (%s). Type /help for commands, Ctrl+D to exit.",
				profile.Username, profile.Role().DisplayName())))
	}

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C or EOF exits gracefully
			fmt.Println()
			printChatSummary(transcript)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := handleChatCommand(line, env, profile.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if done {
				printChatSummary(transcript)
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printChatSummary(transcript)
			return nil
		}

		entryID := transcript.Append(line)
		longCtx, cancel := env.LongRequestContext()
		result, err := env.Client.Query(longCtx, profile.ID, line)
		cancel()
		if err != nil {
			transcript.Fail(entryID, err)
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			continue
		}
		transcript.Resolve(entryID, result.Answer)
		fmt.Println(renderer.Render(result.Answer))
	}
}

// handleChatCommand dispatches slash commands. Returns true to exit.
func handleChatCommand(line string, env *Env, userID int) (bool, error) {
	cmd := strings.Fields(line)[0]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		fmt.Println(MutedStyle.Render(strings.TrimSpace(`
/help, /h     Show this help
/history      Show the saved conversation history
/files        List processed documents
/quit, /q     Exit chat`)))
		return false, nil

	case "/history":
		ctx, cancel := env.RequestContext()
		defer cancel()
		history, err := env.Client.ChatHistory(ctx, userID)
		if err != nil {
			return false, err
		}
		if len(history) == 0 {
			fmt.Println(MutedStyle.Render("No saved exchanges."))
			return false, nil
		}
		for _, exchange := range history {
			fmt.Printf("%s %s\n", PromptStyle.Render("you>"), exchange.Question)
			fmt.Printf("%s\n\n", ValueStyle.Render(exchange.Answer))
		}
		return false, nil

	case "/files":
		ctx, cancel := env.RequestContext()
		defer cancel()
		list, err := env.Tracker.Refresh(ctx)
		if err != nil {
			return false, err
		}
		printFileList(list)
		return false, nil

	default:
		return false, usageErrorf("unknown command %q (try /help)", cmd)
	}
}

// printChatSummary prints a short exit summary.
func printChatSummary(transcript *model.Transcript) {
	if transcript.Len() == 0 {
		return
	}
	fmt.Println(MutedStyle.Render(fmt.Sprintf("%d question(s) this session.", transcript.Len())))
}
