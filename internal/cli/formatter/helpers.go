package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(p Palette, title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Colors.Dim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := p.Head.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// IdentityCard renders the signed-in user for `whoami` and the report view.
func IdentityCard(p Palette, id domain.Identity) string {
	lines := []string{p.Bold(id.DisplayName)}
	if id.LoginHandle != "" && id.LoginHandle != id.DisplayName {
		lines = append(lines, p.Dim("@"+id.LoginHandle))
	}
	if id.AvatarURL != "" {
		lines = append(lines, p.Blue.Render(id.AvatarURL))
	}
	return strings.Join(lines, "\n")
}

// RelativeDay describes day relative to today, both taken as local calendar
// days: "today", "yesterday", "3 days ago", "in 2 days".
func RelativeDay(day, today time.Time) string {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Round(d.Sub(t).Hours() / 24))

	switch {
	case days == 0:
		return "today"
	case days == -1:
		return "yesterday"
	case days == 1:
		return "tomorrow"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
