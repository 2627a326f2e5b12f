package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alexanderramin/prreport/internal/domain"
)

// FakePR is a pull request served by FakeGitHub.
type FakePR struct {
	Number  int
	Title   string
	Commits []FakeCommit

	// CommitsStatus, when non-zero, is returned instead of the commit list.
	CommitsStatus int
}

// FakeCommit is one commit of a FakePR.
type FakeCommit struct {
	SHA     string
	Message string
}

// FakeGitHub is an httptest server implementing the GitHub REST endpoints
// the report server uses: /user, /search/issues and pull request commits.
type FakeGitHub struct {
	*httptest.Server

	mu           sync.Mutex
	user         domain.GitHubUser
	token        string
	prs          []FakePR
	searchStatus int
	queries      []string
}

// NewFakeGitHub starts a FakeGitHub answering for user and closes it on
// cleanup. A non-empty token is required as the bearer credential.
func NewFakeGitHub(t *testing.T, user domain.GitHubUser, token string) *FakeGitHub {
	t.Helper()
	f := &FakeGitHub{user: user, token: token}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", f.handleUser)
	mux.HandleFunc("GET /search/issues", f.handleSearch)
	mux.HandleFunc("GET /repos/acme/web/pulls/{number}/commits", f.handleCommits)

	f.Server = httptest.NewServer(f.authorize(mux))
	t.Cleanup(f.Close)
	return f
}

// SetPullRequests replaces the pull requests returned by every search.
func (f *FakeGitHub) SetPullRequests(prs ...FakePR) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prs = prs
}

// FailSearch makes the search endpoint answer with status.
func (f *FakeGitHub) FailSearch(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchStatus = status
}

// Queries returns the search queries received, in order.
func (f *FakeGitHub) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// PullURL is the API URL of pull request number.
func (f *FakeGitHub) PullURL(number int) string {
	return fmt.Sprintf("%s/repos/acme/web/pulls/%d", f.URL, number)
}

func (f *FakeGitHub) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.token != "" && r.Header.Get("Authorization") != "Bearer "+f.token {
			http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeGitHub) handleUser(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.user)
}

func (f *FakeGitHub) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, r.URL.Query().Get("q"))
	if f.searchStatus != 0 {
		http.Error(w, `{"message":"API rate limit exceeded"}`, f.searchStatus)
		return
	}

	type item struct {
		Title       string `json:"title"`
		HTMLURL     string `json:"html_url"`
		Number      int    `json:"number"`
		PullRequest struct {
			URL string `json:"url"`
		} `json:"pull_request"`
	}
	items := make([]item, 0, len(f.prs))
	for _, pr := range f.prs {
		it := item{
			Title:   pr.Title,
			HTMLURL: fmt.Sprintf("https://github.com/acme/web/pull/%d", pr.Number),
			Number:  pr.Number,
		}
		it.PullRequest.URL = f.PullURL(pr.Number)
		items = append(items, it)
	}
	writeJSON(w, map[string]any{"total_count": len(items), "items": items})
}

func (f *FakeGitHub) handleCommits(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pr := range f.prs {
		if fmt.Sprint(pr.Number) != r.PathValue("number") {
			continue
		}
		if pr.CommitsStatus != 0 {
			http.Error(w, strings.ToLower(http.StatusText(pr.CommitsStatus)), pr.CommitsStatus)
			return
		}
		type commit struct {
			SHA    string `json:"sha"`
			Commit struct {
				Message string `json:"message"`
			} `json:"commit"`
		}
		out := make([]commit, 0, len(pr.Commits))
		for _, c := range pr.Commits {
			var p commit
			p.SHA = c.SHA
			p.Commit.Message = c.Message
			out = append(out, p)
		}
		writeJSON(w, out)
		return
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
