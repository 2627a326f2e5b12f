package cli

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// loadingView is shown while the session is SessionUnknown. It renders
// neither signed-in nor signed-out content.
type loadingView struct {
	state   *SharedState
	spinner spinner.Model
}

func newLoadingView(state *SharedState) *loadingView {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = state.Palette.Purple
	return &loadingView{state: state, spinner: s}
}

func (v *loadingView) Init() tea.Cmd {
	return v.spinner.Tick
}

func (v *loadingView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case themeChangedMsg:
		v.spinner.Style = v.state.Palette.Purple
	}
	return v, nil
}

func (v *loadingView) View() string {
	return "\n  " + v.spinner.View() + " " + v.state.Palette.Dim("Checking session…")
}

func (v *loadingView) ID() ViewID               { return ViewLoading }
func (v *loadingView) Title() string            { return "" }
func (v *loadingView) ShortHelp() []key.Binding { return nil }
