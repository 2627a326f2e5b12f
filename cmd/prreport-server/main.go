package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/prreport/internal/config"
	"github.com/alexanderramin/prreport/internal/db"
	"github.com/alexanderramin/prreport/internal/logging"
	"github.com/alexanderramin/prreport/internal/repository"
	"github.com/alexanderramin/prreport/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:           "prreport-server",
		Short:         "Serve GitHub sign-in and pull request reports",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadServer()
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides API_PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.ServerConfig) error {
	log, err := logging.New(logging.Options{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileLoaded {
		log.Info("no .env file found, reading configuration from the environment")
	}
	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		log.Warn("GITHUB_CLIENT_ID or GITHUB_CLIENT_SECRET is not set; sign-in will fail")
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	srv := server.New(server.Options{
		FrontendURL:   cfg.FrontendURL,
		AllowedOrigin: cfg.AllowedOrigin,
		SessionTTL:    cfg.SessionTTL,
	},
		server.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.CallbackURL()),
		repository.NewSQLiteSessionRepo(database),
		log,
	)

	if n, err := srv.PruneSessions(ctx); err != nil {
		log.Warn("pruning sessions failed", zap.Error(err))
	} else if n > 0 {
		log.Info("pruned expired sessions", zap.Int64("count", n))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
