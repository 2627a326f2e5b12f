package cli

import (
	"context"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/report"
	"github.com/alexanderramin/prreport/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages exchanged between the appModel, its views and background Cmds.
// gen ties session results to the page load that requested them; results
// from an earlier load are dropped.

// bootstrapResultMsg carries the resolved session of page load gen.
type bootstrapResultMsg struct {
	gen   uint64
	state domain.SessionState
}

// signInRequestMsg asks the appModel to start the browser sign-in.
type signInRequestMsg struct {
	privateRepo bool
}

// signInDoneMsg reports the end of the browser sign-in.
type signInDoneMsg struct {
	err error
}

// logoutRequestMsg asks the appModel to end the session.
type logoutRequestMsg struct{}

// logoutDoneMsg carries the Bootstrapper for the page load after logout.
type logoutDoneMsg struct {
	gen  uint64
	next *session.Bootstrapper
	err  error
}

// reportResultMsg carries the outcome of one report query issued during
// page load gen.
type reportResultMsg struct {
	gen     uint64
	outcome report.Outcome
}

// themeChangedMsg tells the active view to re-render with the new palette.
type themeChangedMsg struct{}

func bootstrapCmd(b *session.Bootstrapper, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return bootstrapResultMsg{gen: gen, state: b.Bootstrap(context.Background())}
	}
}

func fetchReportCmd(f report.Fetcher, req report.Request, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return reportResultMsg{gen: gen, outcome: report.Execute(f, req)}
	}
}

func signInCmd(app *App, privateRepo bool) tea.Cmd {
	return func() tea.Msg {
		return signInDoneMsg{err: app.signIn(context.Background(), privateRepo)}
	}
}

func logoutCmd(app *App, gen uint64) tea.Cmd {
	return func() tea.Msg {
		next, err := session.NewTerminator(app.Client, app.logger()).Terminate(context.Background())
		return logoutDoneMsg{gen: gen, next: next, err: err}
	}
}

func requestSignIn(privateRepo bool) tea.Cmd {
	return func() tea.Msg { return signInRequestMsg{privateRepo: privateRepo} }
}

func requestLogout() tea.Cmd {
	return func() tea.Msg { return logoutRequestMsg{} }
}
