package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/github"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"github.com/alexanderramin/prreport/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// session returns the live session named by the request cookie.
func (s *Server) session(r *http.Request) (*domain.ServerSession, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, errUnauthorized
	}
	sess, err := s.sessions.Get(r.Context(), c.Value, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sess.User); err != nil {
		LoggerFrom(r.Context()).Warn("writing identity", zap.Error(err))
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, r, &badRequestError{Message: "Date parameter is required"})
		return
	}
	parsed, err := time.Parse(reportdate.Layout, raw)
	if err != nil {
		writeError(w, r, &badRequestError{Message: "Invalid date format, use YYYY-MM-DD"})
		return
	}

	day := reportdate.Of(parsed)

	var token oauth2.Token
	if err := json.Unmarshal(sess.Token, &token); err != nil {
		writeError(w, r, fmt.Errorf("decoding session token: %w", err))
		return
	}

	log := LoggerFrom(r.Context()).With(zap.String("login", sess.User.Login), zap.String("date", day.String()))
	log.Info("generating report")

	text, err := github.BuildReport(r.Context(), s.provider.API(r.Context(), &token), sess.User.Login, day)
	if err != nil {
		writeError(w, r, &reportError{Err: err})
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/",
		Expires:  s.now().Add(stateTTL),
		HttpOnly: true,
	})

	privateRepo := r.URL.Query().Get("private_repo") == "true"
	http.Redirect(w, r, s.provider.AuthCodeURL(state, privateRepo), http.StatusTemporaryRedirect)
}

// handleCallback completes the OAuth flow. Every failure sends the browser
// back to "/" without a session.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	log := LoggerFrom(r.Context())

	state, err := r.Cookie(StateCookie)
	if err != nil || state.Value == "" || r.FormValue("state") != state.Value {
		log.Warn("invalid oauth state")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: StateCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	token, err := s.provider.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Warn("oauth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	user, err := s.provider.API(r.Context(), token).User(r.Context())
	if err != nil {
		log.Warn("fetching authenticated user failed", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	tokenJSON, err := json.Marshal(token)
	if err != nil {
		writeError(w, r, fmt.Errorf("encoding token: %w", err))
		return
	}

	now := s.now()
	sess := &domain.ServerSession{
		ID:        uuid.NewString(),
		User:      user,
		Token:     tokenJSON,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}
	if err := s.sessions.Create(r.Context(), sess); err != nil {
		writeError(w, r, err)
		return
	}
	log.Info("session created", zap.String("login", user.Login))

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt.Truncate(time.Second),
		HttpOnly: true,
	})
	http.Redirect(w, r, s.opts.FrontendURL, http.StatusTemporaryRedirect)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if err := s.sessions.Delete(r.Context(), c.Value); err != nil {
			LoggerFrom(r.Context()).Warn("deleting session", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, s.opts.FrontendURL, http.StatusTemporaryRedirect)
}
