package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// appModel is the root bubbletea Model for the TUI. Its Update loop is the
// only place session and report state change.
type appModel struct {
	state    *SharedState
	session  domain.SessionState
	boot     *session.Bootstrapper
	gen      uint64 // page load counter
	view     View
	notice   string
	quitting bool
}

func newAppModel(app *App) appModel {
	state := &SharedState{App: app}
	state.ApplyTheme(app.Theme.Load(context.Background()))

	m := appModel{
		state:   state,
		session: domain.SessionUnknown{},
		boot:    session.NewBootstrapper(app.Client, app.logger()),
	}
	m.view = gateView(state, m.session)
	return m
}

// gateView selects the view for a session state. The view is rebuilt on
// every session change and holds nothing from the previous state.
func gateView(state *SharedState, s domain.SessionState) View {
	switch st := s.(type) {
	case domain.SessionUnknown:
		return newLoadingView(state)
	case domain.SessionAnonymous:
		return newSignInView(state)
	case domain.SessionAuthenticated:
		return newReportView(state, st.Identity)
	default:
		return newLoadingView(state)
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.view.Init(), bootstrapCmd(m.boot, m.gen))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case bootstrapResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if _, unknown := m.session.(domain.SessionUnknown); !unknown {
			return m, nil
		}
		m.logger().Debug("session resolved", zap.String("state", domain.SessionLabel(msg.state)), zap.Uint64("load", msg.gen))
		return m, m.setSession(msg.state)

	case signInRequestMsg:
		m.notice = ""
		return m, signInCmd(m.state.App, msg.privateRepo)

	case signInDoneMsg:
		if msg.err != nil {
			m.logger().Warn("sign-in failed", zap.Error(msg.err))
			m.notice = m.state.Palette.Error("Sign-in was not completed: " + msg.err.Error())
			return m, m.setSession(domain.SessionAnonymous{})
		}
		return m, m.reload()

	case logoutRequestMsg:
		m.notice = ""
		m.gen++
		cmd := m.setSession(domain.SessionUnknown{})
		return m, tea.Batch(cmd, logoutCmd(m.state.App, m.gen))

	case logoutDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.notice = m.state.Palette.Warn("The server did not confirm the sign-out.")
		}
		m.boot = msg.next
		return m, bootstrapCmd(m.boot, m.gen)

	case reportResultMsg:
		// Request ids restart with every report view.
		if msg.gen != m.gen {
			m.logger().Debug("report result from earlier load dropped",
				zap.Uint64("request_id", msg.outcome.ID), zap.Uint64("load", msg.gen))
			return m, nil
		}
	}

	return m.forward(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		m.closeView()
		return m, tea.Quit

	case tea.KeyCtrlT:
		pref, err := m.state.App.Theme.Cycle(context.Background())
		if err != nil {
			m.notice = m.state.Palette.Error(err.Error())
			return m, nil
		}
		m.state.ApplyTheme(pref)
		return m.forward(themeChangedMsg{})
	}

	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader(), m.view.View()}
	if m.notice != "" {
		sections = append(sections, "\n  "+m.notice)
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (m *appModel) logger() *zap.Logger {
	return m.state.App.logger()
}

// forward passes msg to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(View)
	return m, cmd
}

// setSession moves to s and swaps in the view for it.
func (m *appModel) setSession(s domain.SessionState) tea.Cmd {
	m.closeView()
	m.session = s
	m.state.Load = m.gen
	m.view = gateView(m.state, s)
	return m.view.Init()
}

// reload starts a fresh page load: SessionUnknown, then one bootstrap.
func (m *appModel) reload() tea.Cmd {
	m.gen++
	m.boot = session.NewBootstrapper(m.state.App.Client, m.logger())
	cmd := m.setSession(domain.SessionUnknown{})
	return tea.Batch(cmd, bootstrapCmd(m.boot, m.gen))
}

func (m *appModel) closeView() {
	if c, ok := m.view.(closer); ok {
		c.Close()
	}
}

func (m *appModel) renderHeader() string {
	p := m.state.Palette
	title := p.Purple.Render("prreport")
	if t := m.view.Title(); t != "" {
		title += " " + p.Dim("›") + " " + p.Dim(t)
	}
	header := title + "  " + p.SessionBadge(m.session)

	sep := p.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	p := m.state.Palette
	var hints []string
	for _, b := range m.view.ShortHelp() {
		hints = append(hints, p.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	hints = append(hints, p.Dim("ctrl+t: theme ("+string(m.state.Pref)+")"))
	hints = append(hints, p.Dim("ctrl+c: quit"))

	bar := strings.Join(hints, "  ")
	sepStyle := lipgloss.NewStyle().Foreground(p.Colors.Dim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}
