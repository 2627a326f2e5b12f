package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var signInKeys = struct {
	Submit, TogglePrivate key.Binding
}{
	Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in with GitHub")),
	TogglePrivate: key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "private repos")),
}

// signInView is the SessionAnonymous view.
type signInView struct {
	state       *SharedState
	privateRepo bool
	waiting     bool
}

func newSignInView(state *SharedState) *signInView {
	return &signInView{state: state}
}

func (v *signInView) Init() tea.Cmd { return nil }

func (v *signInView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || v.waiting {
		return v, nil
	}
	switch {
	case key.Matches(keyMsg, signInKeys.TogglePrivate):
		v.privateRepo = !v.privateRepo
	case key.Matches(keyMsg, signInKeys.Submit):
		v.waiting = true
		return v, requestSignIn(v.privateRepo)
	}
	return v, nil
}

func (v *signInView) View() string {
	p := v.state.Palette
	var b strings.Builder

	b.WriteString("\n  " + p.Bold("Sign in to generate pull request reports") + "\n\n")

	box := "[ ]"
	if v.privateRepo {
		box = p.Green.Render("[x]")
	}
	b.WriteString("  " + box + " Request private repository access\n\n")

	if v.waiting {
		b.WriteString("  " + p.Dim("Complete the sign-in in your browser…"))
	} else {
		b.WriteString("  " + p.Dim("Press enter to continue with GitHub."))
	}
	return b.String()
}

func (v *signInView) ID() ViewID    { return ViewSignIn }
func (v *signInView) Title() string { return "sign in" }
func (v *signInView) ShortHelp() []key.Binding {
	if v.waiting {
		return nil
	}
	return []key.Binding{signInKeys.Submit, signInKeys.TogglePrivate}
}
