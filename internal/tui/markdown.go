package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders agent prose for the terminal. Agent output is
// trusted within the session, so no sanitizing pass. Any renderer failure
// falls back to the raw text.
func renderMarkdown(text string, width int) string {
	if width < 20 || width > 120 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
