// Package tui holds the terminal presentation pieces of the chat command:
// the startup banner and the markdown renderer for replies.
package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown to ANSI using
// glamour, picking a light or dark style from the terminal background. If
// the renderer cannot be built the text passes through unchanged, so a
// broken TERM never breaks the conversation.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
