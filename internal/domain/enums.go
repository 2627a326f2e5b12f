package domain

// ThemePreference is the stored visual mode choice.
type ThemePreference string

const (
	ThemeLight  ThemePreference = "light"
	ThemeDark   ThemePreference = "dark"
	ThemeSystem ThemePreference = "system"
)

// ValidThemePreferences is the canonical set of accepted preference strings.
var ValidThemePreferences = map[ThemePreference]bool{
	ThemeLight: true, ThemeDark: true, ThemeSystem: true,
}

// ParseThemePreference returns the preference for s, or false when s is not one
// of light, dark or system.
func ParseThemePreference(s string) (ThemePreference, bool) {
	p := ThemePreference(s)
	return p, ValidThemePreferences[p]
}

// Next cycles light → dark → system → light.
func (p ThemePreference) Next() ThemePreference {
	switch p {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSystem
	default:
		return ThemeLight
	}
}

// ThemeMode is the concrete mode in effect after resolving ThemeSystem.
type ThemeMode string

const (
	ModeLight ThemeMode = "light"
	ModeDark  ThemeMode = "dark"
)
