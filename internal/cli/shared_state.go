package cli

import (
	"github.com/alexanderramin/prreport/internal/cli/formatter"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/theme"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Load is the page load the active view was built for.
	Load uint64

	// Theme preference and the palette derived from it.
	Pref    domain.ThemePreference
	Palette formatter.Palette

	// Terminal dimensions
	Width  int
	Height int
}

// ApplyTheme makes pref current and recomputes the palette.
func (s *SharedState) ApplyTheme(pref domain.ThemePreference) {
	s.Pref = pref
	s.Palette = formatter.PaletteFor(theme.Resolve(pref, s.App.SystemDark))
}

// ContentWidth returns the usable width, defaulting to 80 before the first
// WindowSizeMsg.
func (s *SharedState) ContentWidth() int {
	if s.Width <= 0 {
		return 80
	}
	return s.Width
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// status bar (2 lines: separator + hints), and the notice line.
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}
