// Package api talks to the report server on behalf of the client.
//
// The session credential is carried by the cookie jar the client is built
// with; nothing in this package reads or writes the credential value.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"github.com/google/uuid"
)

const (
	EndpointMe     = "/api/me"
	EndpointReport = "/api/report"
	EndpointLogin  = "/auth/github/login"
	EndpointLogout = "/auth/logout"
)

// Client provides the report server operations the client needs.
type Client interface {
	// Me returns the identity behind the ambient session.
	Me(ctx context.Context) (domain.Identity, error)

	// Report returns the markdown report body for date, verbatim.
	Report(ctx context.Context, date reportdate.Date) (string, error)

	// Logout asks the server to end the session.
	Logout(ctx context.Context) error

	// LoginURL is the navigation target that starts the OAuth hand-off.
	LoginURL(privateRepo bool) string

	// BaseURL is the server root.
	BaseURL() string
}

// Config holds the connection parameters of a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	noFollow *http.Client
	observer Observer
}

// NewClient creates a Client that sends jar's cookies with every request.
func NewClient(cfg Config, jar http.CookieJar, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &httpClient{
		cfg:  cfg,
		http: &http.Client{Jar: jar},
		noFollow: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		observer: observer,
	}
}

// mePayload is the JSON body returned by GET /api/me.
type mePayload struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

func (c *httpClient) Me(ctx context.Context) (domain.Identity, error) {
	status, body, err := c.get(ctx, c.http, EndpointMe, nil)
	if err != nil {
		return domain.Identity{}, err
	}
	if status != http.StatusOK {
		return domain.Identity{}, fmt.Errorf("%w: status %d", ErrUnauthenticated, status)
	}

	var p mePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.Identity{}, fmt.Errorf("decoding identity: %w", err)
	}
	if p.Login == "" && p.Name == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty identity payload", ErrUnauthenticated)
	}
	return domain.NewIdentity(p.Name, p.Login, p.AvatarURL), nil
}

func (c *httpClient) Report(ctx context.Context, date reportdate.Date) (string, error) {
	query := url.Values{"date": {date.String()}}
	status, body, err := c.get(ctx, c.http, EndpointReport, query)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &StatusError{Endpoint: EndpointReport, Code: status, Body: string(body)}
	}
	return string(body), nil
}

func (c *httpClient) Logout(ctx context.Context) error {
	status, body, err := c.get(ctx, c.noFollow, EndpointLogout, nil)
	if err != nil {
		return err
	}
	if !successStatus(EndpointLogout, status) {
		return &StatusError{Endpoint: EndpointLogout, Code: status, Body: string(body)}
	}
	return nil
}

func (c *httpClient) LoginURL(privateRepo bool) string {
	u := c.cfg.BaseURL + EndpointLogin
	if privateRepo {
		u += "?private_repo=true"
	}
	return u
}

func (c *httpClient) BaseURL() string {
	return c.cfg.BaseURL
}

// get performs one GET and reports the outcome to the observer.
// A transport failure is returned as ErrUnavailable unless ctx ended first.
func (c *httpClient) get(ctx context.Context, hc *http.Client, endpoint string, query url.Values) (int, []byte, error) {
	start := time.Now()
	requestID := uuid.NewString()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	status, body, err := c.do(ctx, hc, endpoint, query, requestID)
	code := errorCode(err)
	if err == nil && !successStatus(endpoint, status) {
		code = fmt.Sprintf("HTTP_%d", status)
	}
	c.observer.OnCallComplete(CallEvent{
		Endpoint:  endpoint,
		RequestID: requestID,
		LatencyMs: time.Since(start).Milliseconds(),
		Status:    status,
		Success:   code == "",
		ErrorCode: code,
	})
	return status, body, err
}

// successStatus reports whether status is the expected outcome for endpoint.
// Logout answers with a redirect.
func successStatus(endpoint string, status int) bool {
	if endpoint == EndpointLogout {
		return status < http.StatusBadRequest
	}
	return status == http.StatusOK
}

func (c *httpClient) do(ctx context.Context, hc *http.Client, endpoint string, query url.Values, requestID string) (int, []byte, error) {
	target := c.cfg.BaseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Request-Id", requestID)

	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}
