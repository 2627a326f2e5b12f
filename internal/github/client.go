// Package github reads pull requests and commits from the GitHub REST API
// and assembles them into the daily markdown report.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/reportdate"
)

// DefaultBaseURL is the public GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// PullRequest is one search hit for a pull request.
type PullRequest struct {
	Title   string
	HTMLURL string
	Number  int
	APIURL  string // pulls endpoint, the base of the commits listing
}

// Commit is one commit of a pull request.
type Commit struct {
	SHA     string
	Message string
}

// APIError is a non-200 answer from GitHub.
type APIError struct {
	URL  string
	Code int
	Body string
}

func (e *APIError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, body)
	}
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

// Client is a minimal GitHub REST client. Authentication is carried by the
// http.Client, normally one built by oauth2.Config.Client.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(hc *http.Client, baseURL string) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// User returns the profile of the authenticated user.
func (c *Client) User(ctx context.Context) (domain.GitHubUser, error) {
	var u domain.GitHubUser
	if err := c.getJSON(ctx, c.baseURL+"/user", &u); err != nil {
		return domain.GitHubUser{}, fmt.Errorf("fetching user: %w", err)
	}
	if u.Login == "" {
		return domain.GitHubUser{}, fmt.Errorf("fetching user: empty login")
	}
	return u, nil
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		HTMLURL     string `json:"html_url"`
		Number      int    `json:"number"`
		PullRequest struct {
			URL string `json:"url"`
		} `json:"pull_request"`
	} `json:"items"`
}

// SearchQuery is the issue search for pull requests login opened on day.
func SearchQuery(login string, day reportdate.Date) string {
	d := day.String()
	return fmt.Sprintf("is:pr author:%s created:%s..%s", login, d, d)
}

// SearchPullRequests lists the pull requests login opened on day, in
// GitHub's search order.
func (c *Client) SearchPullRequests(ctx context.Context, login string, day reportdate.Date) ([]PullRequest, error) {
	q := url.Values{}
	q.Set("q", SearchQuery(login, day))
	q.Set("per_page", "100")

	var res searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search/issues?"+q.Encode(), &res); err != nil {
		return nil, fmt.Errorf("searching pull requests: %w", err)
	}

	prs := make([]PullRequest, 0, len(res.Items))
	for _, it := range res.Items {
		prs = append(prs, PullRequest{
			Title:   it.Title,
			HTMLURL: it.HTMLURL,
			Number:  it.Number,
			APIURL:  it.PullRequest.URL,
		})
	}
	return prs, nil
}

type commitPayload struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
}

// Commits lists the commits of the pull request at prAPIURL.
func (c *Client) Commits(ctx context.Context, prAPIURL string) ([]Commit, error) {
	var payload []commitPayload
	if err := c.getJSON(ctx, strings.TrimRight(prAPIURL, "/")+"/commits", &payload); err != nil {
		return nil, err
	}
	commits := make([]Commit, 0, len(payload))
	for _, p := range payload {
		commits = append(commits, Commit{SHA: p.SHA, Message: p.Commit.Message})
	}
	return commits, nil
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{URL: target, Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", target, err)
	}
	return nil
}
