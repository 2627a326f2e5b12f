package cli

import (
	"bytes"
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/prreport/internal/api"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"github.com/alexanderramin/prreport/internal/repository"
	"github.com/alexanderramin/prreport/internal/teatest"
	"github.com/alexanderramin/prreport/internal/testutil"
	"github.com/alexanderramin/prreport/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
)

var octocat = domain.NewIdentity("The Octocat", "octocat", "https://avatars.example/583231")

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

type fakeReply struct {
	text string
	err  error
}

// fakeClient is an in-process report server. identity nil means no session.
// Its methods return immediately so the teatest driver drains them.
type fakeClient struct {
	mu          sync.Mutex
	identity    *domain.Identity
	reports     map[string]fakeReply
	reportDates []string
	meCalls     int
	logoutCalls int
	logoutErr   error
}

func newFakeClient(id *domain.Identity) *fakeClient {
	return &fakeClient{identity: id, reports: make(map[string]fakeReply)}
}

func (c *fakeClient) Me(context.Context) (domain.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meCalls++
	if c.identity == nil {
		return domain.Identity{}, api.ErrUnauthenticated
	}
	return *c.identity, nil
}

func (c *fakeClient) Report(ctx context.Context, d reportdate.Date) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reportDates = append(c.reportDates, d.String())
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r, ok := c.reports[d.String()]
	if !ok {
		return "- Fixed bug #12", nil
	}
	return r.text, r.err
}

func (c *fakeClient) Logout(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoutCalls++
	if c.logoutErr != nil {
		return c.logoutErr
	}
	c.identity = nil
	return nil
}

func (c *fakeClient) LoginURL(privateRepo bool) string {
	u := "http://api.test/auth/github/login"
	if privateRepo {
		u += "?private_repo=true"
	}
	return u
}

func (c *fakeClient) BaseURL() string { return "http://api.test" }

func (c *fakeClient) setReport(date string, r fakeReply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[date] = r
}

func (c *fakeClient) calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.reportDates...)
}

func (c *fakeClient) counts() (me, logout int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meCalls, c.logoutCalls
}

// fakeSignIn grants the fake client a session, as a finished browser
// hand-off would.
type fakeSignIn struct {
	client *fakeClient
	err    error
	urls   []string
}

func (s *fakeSignIn) Run(_ context.Context, loginURL string) error {
	s.urls = append(s.urls, loginURL)
	if s.err != nil {
		return s.err
	}
	s.client.mu.Lock()
	id := octocat
	s.client.identity = &id
	s.client.mu.Unlock()
	return nil
}

// testApp wires an App around client with an in-memory preference store.
// The clock is fixed at 2024-03-15 noon local time.
func testApp(t *testing.T, client *fakeClient) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &App{
		Client: client,
		Theme:  theme.NewStore(repository.NewSQLitePreferenceRepo(database), domain.ThemeDark, nil),
		SignIn: &fakeSignIn{client: client},
		Now: func() time.Time {
			return time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
		},
		SystemDark: func() bool { return true },
	}
}

func signedIn() *domain.Identity {
	id := octocat
	return &id
}

// runCmd executes the command tree with args and returns combined output.
func runCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(out.String()), err
}

// TestDriver wraps teatest.Driver with inspection of appModel internals.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets the terminal size and drains
// Init(), which runs the bootstrap against the fake client.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// Session returns the current session state.
func (d *TestDriver) Session() domain.SessionState {
	return d.appModel().session
}

// ActiveViewID returns the ViewID the AuthGate selected.
func (d *TestDriver) ActiveViewID() ViewID {
	return d.appModel().view.ID()
}

// ReportState returns the controller state, or nil outside the report view.
func (d *TestDriver) ReportState() domain.ReportState {
	if rv, ok := d.appModel().view.(*reportView); ok {
		return rv.ctrl.State()
	}
	return nil
}

// PlainView returns the rendered screen without ANSI styling.
func (d *TestDriver) PlainView() string {
	return stripANSI(d.View())
}

// ClearInput empties the date field.
func (d *TestDriver) ClearInput() {
	d.T.Helper()
	for range 12 {
		d.SendKey(tea.KeyMsg{Type: tea.KeyBackspace})
	}
}

// deliverResults runs cmd and feeds only its report results into m.
func deliverResults(m tea.Model, cmd tea.Cmd) tea.Model {
	for _, msg := range teatest.Collect(cmd) {
		if r, ok := msg.(reportResultMsg); ok {
			m, _ = m.Update(r)
		}
	}
	return m
}
