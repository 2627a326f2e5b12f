package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/prreport/internal/reportdate"
	"golang.org/x/sync/errgroup"
)

const (
	// maxCommitsPerPR caps the commit lines listed under each pull request.
	maxCommitsPerPR = 5

	// commitFetchLimit bounds concurrent commit listings.
	commitFetchLimit = 4
)

// Source is the part of the GitHub API the report needs.
type Source interface {
	SearchPullRequests(ctx context.Context, login string, day reportdate.Date) ([]PullRequest, error)
	Commits(ctx context.Context, prAPIURL string) ([]Commit, error)
}

// BuildReport renders the markdown report of the pull requests login
// opened on day. Each pull request becomes a linked heading followed by
// the first line of up to five of its commits. A pull request whose
// commits cannot be listed gets a failure line instead; only a failed
// search fails the report.
func BuildReport(ctx context.Context, src Source, login string, day reportdate.Date) (string, error) {
	prs, err := src.SearchPullRequests(ctx, login, day)
	if err != nil {
		return "", err
	}

	sections := make([]string, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(commitFetchLimit)
	for i, pr := range prs {
		g.Go(func() error {
			sections[i] = renderPullRequest(gctx, src, pr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.Join(sections, ""), nil
}

func renderPullRequest(ctx context.Context, src Source, pr PullRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s](%s)\n", pr.Title, pr.HTMLURL)

	commits, err := src.Commits(ctx, pr.APIURL)
	if err != nil {
		fmt.Fprintf(&b, "Failed to fetch commits for PR #%d: %v\n\n", pr.Number, err)
		return b.String()
	}
	for i, c := range commits {
		if i >= maxCommitsPerPR {
			break
		}
		fmt.Fprintf(&b, "- `%s`: %s\n", shortSHA(c.SHA), firstLine(c.Message))
	}
	b.WriteString("\n")
	return b.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimRight(line, "\r")
}
