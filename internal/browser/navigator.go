// Package browser hands the OAuth sign-in to a real browser and brings the
// resulting session cookie back to the client's jar.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrAbandoned is returned when the browser never reached the frontend
// before the sign-in deadline.
var ErrAbandoned = errors.New("sign-in was not completed")

// Navigator opens startURL, waits until the browser lands on a page under
// doneURL, and returns the browser's cookies for cookieURL.
type Navigator interface {
	Collect(ctx context.Context, startURL, doneURL, cookieURL string) ([]*http.Cookie, error)
}

// Options configures the rod-driven browser.
type Options struct {
	Headless     bool
	Bin          string
	PollInterval time.Duration
}

// RodNavigator drives Chrome through the devtools protocol.
type RodNavigator struct {
	opts Options
	log  *zap.Logger
}

// NewRodNavigator creates a RodNavigator.
func NewRodNavigator(opts Options, log *zap.Logger) *RodNavigator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RodNavigator{opts: opts, log: log}
}

func (n *RodNavigator) Collect(ctx context.Context, startURL, doneURL, cookieURL string) ([]*http.Cookie, error) {
	l := launcher.New().Headless(n.opts.Headless).Context(ctx)
	if n.opts.Bin != "" {
		l = l.Bin(n.opts.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	defer l.Cleanup()

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	defer func() { _ = b.Close() }()

	page, err := b.Page(proto.TargetCreateTarget{URL: startURL})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", startURL, err)
	}
	n.log.Info("waiting for sign-in in browser", zap.String("url", startURL))

	if err := n.waitFor(ctx, page, doneURL); err != nil {
		return nil, err
	}

	cookies, err := page.Cookies([]string{cookieURL})
	if err != nil {
		return nil, fmt.Errorf("reading browser cookies: %w", err)
	}
	n.log.Debug("collected browser cookies", zap.Int("count", len(cookies)))
	return toHTTPCookies(cookies), nil
}

func (n *RodNavigator) waitFor(ctx context.Context, page *rod.Page, doneURL string) error {
	ticker := time.NewTicker(n.opts.PollInterval)
	defer ticker.Stop()
	for {
		info, err := page.Info()
		if err == nil && reached(info.URL, doneURL) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrAbandoned, ctx.Err())
		case <-ticker.C:
		}
	}
}

// reached reports whether current is doneURL or a page below it.
func reached(current, doneURL string) bool {
	done := strings.TrimRight(doneURL, "/")
	if done == "" {
		return false
	}
	return current == done || strings.HasPrefix(current, done+"/") || strings.HasPrefix(current, done+"?")
}

// toHTTPCookies converts devtools cookies to host-only http.Cookies. The
// domain is dropped so the jar scopes them to the URL they are set for.
func toHTTPCookies(in []*proto.NetworkCookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(in))
	for _, c := range in {
		hc := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		if !c.Session && c.Expires > 0 {
			hc.Expires = time.Unix(int64(c.Expires), 0)
		}
		out = append(out, hc)
	}
	return out
}
