package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/prreport/internal/api"
	"github.com/alexanderramin/prreport/internal/browser"
	"github.com/alexanderramin/prreport/internal/cli"
	"github.com/alexanderramin/prreport/internal/config"
	"github.com/alexanderramin/prreport/internal/db"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/logging"
	"github.com/alexanderramin/prreport/internal/repository"
	"github.com/alexanderramin/prreport/internal/theme"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	// Logs go to a file so the terminal stays clean.
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Path: cfg.LogPath})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	jar, err := api.NewPersistentJar(database, uow, log)
	if err != nil {
		return fmt.Errorf("creating cookie jar: %w", err)
	}
	if n, err := jar.Prune(context.Background()); err != nil {
		log.Warn("pruning cookies failed", zap.Error(err))
	} else if n > 0 {
		log.Debug("pruned expired cookies", zap.Int64("count", n))
	}

	client := api.NewClient(api.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout()}, jar, api.NewLogObserver(log))

	fallback, ok := domain.ParseThemePreference(cfg.DefaultTheme)
	if !ok {
		log.Warn("ignoring unknown default theme", zap.String("theme", cfg.DefaultTheme))
		fallback = domain.ThemeDark
	}

	nav := browser.NewRodNavigator(browser.Options{
		Headless: cfg.Browser.Headless,
		Bin:      cfg.Browser.Bin,
	}, log)

	app := &cli.App{
		Client:       client,
		Theme:        theme.NewStore(repository.NewSQLitePreferenceRepo(database), fallback, log),
		SignIn:       browser.NewSignIn(nav, jar, client.BaseURL(), cfg.FrontendURL, log),
		Log:          log,
		LoginTimeout: cfg.LoginTimeout(),
		SystemDark:   theme.SystemDark,
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
