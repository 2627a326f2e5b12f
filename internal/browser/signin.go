package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// SignIn runs the browser hand-off and stores the resulting cookies.
type SignIn struct {
	nav         Navigator
	jar         http.CookieJar
	baseURL     string
	frontendURL string
	log         *zap.Logger
}

// NewSignIn creates a SignIn that stores cookies for baseURL in jar once the
// browser has been redirected to frontendURL.
func NewSignIn(nav Navigator, jar http.CookieJar, baseURL, frontendURL string, log *zap.Logger) *SignIn {
	if log == nil {
		log = zap.NewNop()
	}
	return &SignIn{nav: nav, jar: jar, baseURL: baseURL, frontendURL: frontendURL, log: log}
}

// Run navigates to loginURL and copies the browser's cookies for the report
// server into the jar. The caller bootstraps again afterwards; Run itself
// never inspects the cookies.
func (s *SignIn) Run(ctx context.Context, loginURL string) error {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return fmt.Errorf("parsing base URL: %w", err)
	}

	cookies, err := s.nav.Collect(ctx, loginURL, s.frontendURL, s.baseURL)
	if err != nil {
		return err
	}
	if len(cookies) == 0 {
		s.log.Warn("browser returned no cookies for report server", zap.String("base_url", s.baseURL))
		return nil
	}
	s.jar.SetCookies(&url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}, cookies)
	s.log.Info("sign-in cookies stored", zap.Int("count", len(cookies)))
	return nil
}
