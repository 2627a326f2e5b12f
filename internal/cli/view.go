package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewLoading ViewID = iota
	ViewSignIn
	ViewReport
)

func (id ViewID) String() string {
	switch id {
	case ViewLoading:
		return "loading"
	case ViewSignIn:
		return "sign-in"
	case ViewReport:
		return "report"
	default:
		return "unknown"
	}
}

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // header segment for this view
}

// closer is implemented by views that own in-flight work.
type closer interface {
	Close()
}
