package cli

import (
	"github.com/alexanderramin/prreport/internal/cli/formatter"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// huhTheme returns a huh theme built from the palette.
func huhTheme(p formatter.Palette) *huh.Theme {
	t := huh.ThemeBase()
	c := p.Colors

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(c.Header).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(c.Header)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(c.Green)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(c.Fg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(c.Fg).Background(c.Header).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(c.Dim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(c.Dim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(c.Dim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(c.Dim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(c.Dim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(c.Dim)

	return t
}

// privateRepoForm asks whether to request private repository access.
func privateRepoForm(p formatter.Palette, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Request private repository access?").
				Description("Reports then include pull requests in private repositories.").
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(huhTheme(p)).WithShowHelp(false)
}

// themeOptions lists the theme choices in cycling order.
func themeOptions() []huh.Option[domain.ThemePreference] {
	return []huh.Option[domain.ThemePreference]{
		huh.NewOption("Light", domain.ThemeLight),
		huh.NewOption("Dark", domain.ThemeDark),
		huh.NewOption("Follow terminal", domain.ThemeSystem),
	}
}

// themePickerForm lets the user pick a theme preference.
func themePickerForm(p formatter.Palette, result *domain.ThemePreference) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.ThemePreference]().
				Title("Theme").
				Options(themeOptions()...).
				Value(result),
		),
	).WithTheme(huhTheme(p)).WithShowHelp(false)
}
