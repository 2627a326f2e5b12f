// Package server implements prreport-server: GitHub sign-in, the session
// cookie and the report endpoints the client calls.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/alexanderramin/prreport/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	// SessionCookie carries the session id to the browser.
	SessionCookie = "session_id"

	// StateCookie carries the OAuth state between login and callback.
	StateCookie = "oauthstate"

	stateTTL = 10 * time.Minute
)

// Options configures a Server.
type Options struct {
	FrontendURL   string
	AllowedOrigin string
	SessionTTL    time.Duration
}

// Server holds the handler dependencies.
type Server struct {
	opts     Options
	provider OAuthProvider
	sessions repository.SessionRepo
	log      *zap.Logger
	now      func() time.Time
}

// New creates a Server. A zero SessionTTL means 24 hours.
func New(opts Options, provider OAuthProvider, sessions repository.SessionRepo, log *zap.Logger) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = opts.FrontendURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		opts:     opts,
		provider: provider,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.opts.AllowedOrigin))

	r.Route("/api", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/report", s.handleReport)
	})
	r.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", s.handleLogin)
		r.Get("/github/callback", s.handleCallback)
		r.Get("/logout", s.handleLogout)
	})
	return r
}

// PruneSessions deletes expired sessions.
func (s *Server) PruneSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
