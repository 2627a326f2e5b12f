package theme

import (
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/charmbracelet/glamour"
)

// MarkdownStyle is the glamour style name for mode.
func MarkdownStyle(mode domain.ThemeMode) string {
	if mode == domain.ModeLight {
		return "light"
	}
	return "dark"
}

// NewRenderer builds a markdown renderer for mode. width <= 0 disables wrapping.
func NewRenderer(mode domain.ThemeMode, width int) (*glamour.TermRenderer, error) {
	if width < 0 {
		width = 0
	}
	return glamour.NewTermRenderer(
		glamour.WithStylePath(MarkdownStyle(mode)),
		glamour.WithWordWrap(width),
	)
}

// RenderMarkdown renders text for mode, falling back to the raw text when
// rendering fails. Report bodies are displayed whether or not they are
// well-formed markdown.
func RenderMarkdown(text string, mode domain.ThemeMode, width int) string {
	r, err := NewRenderer(mode, width)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
