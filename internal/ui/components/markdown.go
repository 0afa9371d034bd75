// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// ANSWER RENDERER
// =============================================================================

// AnswerRenderer formats chat answers for terminal display. With
// markdown enabled the full answer goes through glamour; otherwise
// the text prints as-is except fenced code blocks, which still get
// syntax highlighting.
type AnswerRenderer struct {
	renderer *glamour.TermRenderer
	markdown bool
	width    int
}

// NewAnswerRenderer creates a renderer. A glamour initialization
// failure degrades to plain output rather than erroring: answers must
// always display.
func NewAnswerRenderer(markdown bool, width int) *AnswerRenderer {
	if width <= 0 {
		width = 80
	}
	r := &AnswerRenderer{markdown: markdown, width: width}
	if markdown {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			r.renderer = tr
		}
	}
	return r
}

// Render formats an answer.
func (r *AnswerRenderer) Render(answer string) string {
	if r.markdown && r.renderer != nil {
		rendered, err := r.renderer.Render(answer)
		if err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return highlightFences(answer)
}

// highlightFences applies syntax highlighting to fenced code blocks in
// otherwise plain text.
func highlightFences(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	var fence []string
	lang := ""
	inside := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if !inside {
				inside = true
				lang = strings.TrimPrefix(trimmed, "```")
				fence = fence[:0]
			} else {
				inside = false
				out = append(out, HighlightCode(strings.Join(fence, "\n"), lang))
			}
			continue
		}
		if inside {
			fence = append(fence, line)
		} else {
			out = append(out, line)
		}
	}
	// Unterminated fence: emit what we collected, unhighlighted.
	if inside {
		out = append(out, fence...)
	}
	return strings.Join(out, "\n")
}

// HighlightCode applies terminal syntax highlighting to a code
// snippet. Returns the input unchanged when highlighting fails.
func HighlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(sb.String(), "\n")
}
