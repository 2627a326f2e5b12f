package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palettes, one per theme mode.
var (
	darkColors = Colors{
		Green:  lipgloss.Color("#8ec07c"),
		Yellow: lipgloss.Color("#fabd2f"),
		Red:    lipgloss.Color("#fb4934"),
		Blue:   lipgloss.Color("#83a598"),
		Purple: lipgloss.Color("#d3869b"),
		Dim:    lipgloss.Color("#928374"),
		Fg:     lipgloss.Color("#ebdbb2"),
		Header: lipgloss.Color("#fe8019"),
	}
	lightColors = Colors{
		Green:  lipgloss.Color("#79740e"),
		Yellow: lipgloss.Color("#b57614"),
		Red:    lipgloss.Color("#9d0006"),
		Blue:   lipgloss.Color("#076678"),
		Purple: lipgloss.Color("#8f3f71"),
		Dim:    lipgloss.Color("#7c6f64"),
		Fg:     lipgloss.Color("#3c3836"),
		Header: lipgloss.Color("#af3a03"),
	}
)

// Colors is the raw color set of a palette.
type Colors struct {
	Green, Yellow, Red, Blue, Purple, Dim, Fg, Header lipgloss.Color
}

// Palette holds the styles for one theme mode. Pass it down; there is no
// package-level current palette.
type Palette struct {
	Mode   domain.ThemeMode
	Colors Colors

	Green  lipgloss.Style
	Yellow lipgloss.Style
	Red    lipgloss.Style
	Blue   lipgloss.Style
	Purple lipgloss.Style
	Muted  lipgloss.Style
	Fg     lipgloss.Style
	Head   lipgloss.Style
	Strong lipgloss.Style
}

// PaletteFor returns the palette for mode.
func PaletteFor(mode domain.ThemeMode) Palette {
	c := darkColors
	if mode == domain.ModeLight {
		c = lightColors
	}
	return Palette{
		Mode:   mode,
		Colors: c,
		Green:  lipgloss.NewStyle().Foreground(c.Green),
		Yellow: lipgloss.NewStyle().Foreground(c.Yellow),
		Red:    lipgloss.NewStyle().Foreground(c.Red),
		Blue:   lipgloss.NewStyle().Foreground(c.Blue),
		Purple: lipgloss.NewStyle().Foreground(c.Purple),
		Muted:  lipgloss.NewStyle().Foreground(c.Dim),
		Fg:     lipgloss.NewStyle().Foreground(c.Fg),
		Head:   lipgloss.NewStyle().Foreground(c.Header).Bold(true),
		Strong: lipgloss.NewStyle().Foreground(c.Fg).Bold(true),
	}
}

// Header renders a section header with an underline.
func (p Palette) Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", p.Head.Render(upper), p.Muted.Render(line))
}

// Dim renders text in the muted color.
func (p Palette) Dim(text string) string {
	return p.Muted.Render(text)
}

// Bold renders text in bold with the foreground color.
func (p Palette) Bold(text string) string {
	return p.Strong.Render(text)
}

// Error renders a failure line.
func (p Palette) Error(text string) string {
	return p.Red.Render("✗ " + text)
}

// Success renders a confirmation line.
func (p Palette) Success(text string) string {
	return p.Green.Render("✓ " + text)
}

// Warn renders a cautionary note.
func (p Palette) Warn(text string) string {
	return p.Yellow.Render(text)
}

// SessionBadge renders a short colored label for a session state.
func (p Palette) SessionBadge(s domain.SessionState) string {
	switch st := s.(type) {
	case domain.SessionAuthenticated:
		return p.Green.Render("● " + st.Identity.LoginHandle)
	case domain.SessionAnonymous:
		return p.Yellow.Render("● signed out")
	default:
		return p.Muted.Render("● checking")
	}
}
