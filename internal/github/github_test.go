package github_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/github"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"github.com/alexanderramin/prreport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var (
	octocat = domain.GitHubUser{Login: "octocat", Name: "The Octocat", AvatarURL: "https://avatars.example/583231"}
	day     = reportdate.Date{Year: 2024, Month: 3, Day: 15}
)

// newClient authenticates like the server does, through an oauth2 transport.
func newClient(t *testing.T, gh *testutil.FakeGitHub, token string) *github.Client {
	t.Helper()
	hc := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return github.NewClient(hc, gh.URL)
}

func TestClient_User(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, octocat, "tok")

	u, err := newClient(t, gh, "tok").User(context.Background())

	require.NoError(t, err)
	assert.Equal(t, octocat, u)
}

func TestClient_BadCredentials(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, octocat, "tok")

	_, err := newClient(t, gh, "wrong").User(context.Background())

	var apiErr *github.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestClient_SearchPullRequests(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, octocat, "tok")
	gh.SetPullRequests(testutil.FakePR{Number: 7, Title: "Fix login"}, testutil.FakePR{Number: 9, Title: "Add docs"})

	prs, err := newClient(t, gh, "tok").SearchPullRequests(context.Background(), "octocat", day)

	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, github.PullRequest{
		Title:   "Fix login",
		HTMLURL: "https://github.com/acme/web/pull/7",
		Number:  7,
		APIURL:  gh.PullURL(7),
	}, prs[0])
	assert.Equal(t, 9, prs[1].Number)
	assert.Equal(t, []string{"is:pr author:octocat created:2024-03-15..2024-03-15"}, gh.Queries())
}

func TestClient_Commits(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, octocat, "")
	gh.SetPullRequests(testutil.FakePR{Number: 7, Commits: []testutil.FakeCommit{
		{SHA: "abc1234def", Message: "Fix login redirect\n\nLonger body"},
	}})

	commits, err := github.NewClient(nil, gh.URL).Commits(context.Background(), gh.PullURL(7))

	require.NoError(t, err)
	assert.Equal(t, []github.Commit{{SHA: "abc1234def", Message: "Fix login redirect\n\nLonger body"}}, commits)
}

func TestBuildReport(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, octocat, "tok")
	gh.SetPullRequests(
		testutil.FakePR{Number: 7, Title: "Fix login", Commits: []testutil.FakeCommit{
			{SHA: "abc1234def5678", Message: "Fix login redirect\n\nThe callback lost the state."},
			{SHA: "bcd2345", Message: "Add test"},
		}},
		testutil.FakePR{Number: 9, Title: "Add docs", CommitsStatus: http.StatusBadGateway},
	)

	text, err := github.BuildReport(context.Background(), newClient(t, gh, "tok"), "octocat", day)

	require.NoError(t, err)
	assert.Equal(t,
		"## [Fix login](https://github.com/acme/web/pull/7)\n"+
			"- `abc1234`: Fix login redirect\n"+
			"- `bcd2345`: Add test\n"+
			"\n"+
			"## [Add docs](https://github.com/acme/web/pull/9)\n"+
			"Failed to fetch commits for PR #9: GET "+gh.PullURL(9)+"/commits: status 502: bad gateway\n"+
			"\n",
		text)
}

func TestBuildReport_NoPullRequests(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, octocat, "tok")

	text, err := github.BuildReport(context.Background(), newClient(t, gh, "tok"), "octocat", day)

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestBuildReport_SearchFailure(t *testing.T) {
	gh := testutil.NewFakeGitHub(t, octocat, "tok")
	gh.FailSearch(http.StatusForbidden)

	_, err := github.BuildReport(context.Background(), newClient(t, gh, "tok"), "octocat", day)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API rate limit exceeded")
}

func TestBuildReport_ListsAtMostFiveCommits(t *testing.T) {
	var commits []testutil.FakeCommit
	for i := range 8 {
		commits = append(commits, testutil.FakeCommit{SHA: strings.Repeat(string(rune('a'+i)), 40), Message: "commit"})
	}
	gh := testutil.NewFakeGitHub(t, octocat, "")
	gh.SetPullRequests(testutil.FakePR{Number: 1, Title: "Big", Commits: commits})

	text, err := github.BuildReport(context.Background(), github.NewClient(nil, gh.URL), "octocat", day)

	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(text, "\n- `"))
	assert.Contains(t, text, "- `eeeeeee`: commit")
	assert.NotContains(t, text, "fffffff")
}

// slowSource answers commit listings after a per-PR delay so later pull
// requests finish first.
type slowSource struct {
	prs      []github.PullRequest
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
}

func (s *slowSource) SearchPullRequests(context.Context, string, reportdate.Date) ([]github.PullRequest, error) {
	return s.prs, nil
}

func (s *slowSource) Commits(ctx context.Context, prAPIURL string) ([]github.Commit, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	s.mu.Lock()
	if n > s.peak.Load() {
		s.peak.Store(n)
	}
	s.mu.Unlock()

	delay := time.Duration(20-len(prAPIURL)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []github.Commit{{SHA: "1234567", Message: prAPIURL}}, nil
}

func TestBuildReport_KeepsSearchOrderWithBoundedConcurrency(t *testing.T) {
	src := &slowSource{}
	for i := 1; i <= 10; i++ {
		src.prs = append(src.prs, github.PullRequest{
			Number: i,
			Title:  "PR",
			APIURL: strings.Repeat("x", i),
		})
	}

	text, err := github.BuildReport(context.Background(), src, "octocat", day)

	require.NoError(t, err)
	var order []string
	for _, line := range strings.Split(text, "\n") {
		if msg, ok := strings.CutPrefix(line, "- `1234567`: "); ok {
			order = append(order, msg)
		}
	}
	require.Len(t, order, 10)
	for i, msg := range order {
		assert.Len(t, msg, i+1)
	}
	assert.LessOrEqual(t, src.peak.Load(), int32(4))
}

type failingSearch struct{}

func (failingSearch) SearchPullRequests(context.Context, string, reportdate.Date) ([]github.PullRequest, error) {
	return nil, errors.New("search down")
}

func (failingSearch) Commits(context.Context, string) ([]github.Commit, error) {
	return nil, nil
}

func TestBuildReport_ReturnsSearchError(t *testing.T) {
	_, err := github.BuildReport(context.Background(), failingSearch{}, "octocat", day)

	assert.EqualError(t, err, "search down")
}
