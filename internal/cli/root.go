package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/prreport/internal/api"
	"github.com/alexanderramin/prreport/internal/cli/formatter"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/session"
	"github.com/alexanderramin/prreport/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	errNotSignedIn    = errors.New("not signed in; run `prreport login` first")
	errNotInteractive = errors.New("the interactive client needs a terminal; use `prreport report --date YYYY-MM-DD`")
)

// Authenticator completes the browser sign-in started at loginURL.
type Authenticator interface {
	Run(ctx context.Context, loginURL string) error
}

// App holds everything the commands and the TUI need.
type App struct {
	Client       api.Client
	Theme        *theme.Store
	SignIn       Authenticator
	Log          *zap.Logger
	LoginTimeout time.Duration

	// Now and SystemDark are replaceable for tests.
	Now        func() time.Time
	SystemDark func() bool

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) palette(ctx context.Context) formatter.Palette {
	return formatter.PaletteFor(theme.Resolve(a.Theme.Load(ctx), a.SystemDark))
}

// signIn runs the browser hand-off bounded by LoginTimeout.
func (a *App) signIn(ctx context.Context, privateRepo bool) error {
	if a.SignIn == nil {
		return errors.New("browser sign-in is not configured")
	}
	if a.LoginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.LoginTimeout)
		defer cancel()
	}
	return a.SignIn.Run(ctx, a.Client.LoginURL(privateRepo))
}

// identity bootstraps a fresh session and requires it to be authenticated.
func (a *App) identity(ctx context.Context) (domain.Identity, error) {
	switch st := session.NewBootstrapper(a.Client, a.logger()).Bootstrap(ctx).(type) {
	case domain.SessionAuthenticated:
		return st.Identity, nil
	case domain.SessionAnonymous:
		return domain.Identity{}, errNotSignedIn
	default:
		return domain.Identity{}, fmt.Errorf("unexpected session state %s", domain.SessionLabel(st))
	}
}

// NewRootCmd creates the top-level "prreport" command. Without a
// subcommand it starts the interactive client.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "prreport",
		Short:         "Daily pull request reports from GitHub",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			return runTUI(app)
		},
	}

	root.AddCommand(
		newReportCmd(app),
		newWhoamiCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newThemeCmd(app),
	)

	return root
}

func runTUI(app *App) error {
	m := newAppModel(app)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
