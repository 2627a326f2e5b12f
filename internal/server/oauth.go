package server

import (
	"context"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const (
	scopeUser    = "read:user"
	scopePrivate = "repo"
)

// GitHubAPI is what the server reads from GitHub on behalf of a session.
type GitHubAPI interface {
	User(ctx context.Context) (domain.GitHubUser, error)
	github.Source
}

// OAuthProvider runs the OAuth code flow and builds API clients for tokens.
type OAuthProvider interface {
	AuthCodeURL(state string, privateRepo bool) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	API(ctx context.Context, token *oauth2.Token) GitHubAPI
}

// GitHubProvider is the OAuthProvider for github.com.
type GitHubProvider struct {
	cfg     *oauth2.Config
	apiBase string
}

// NewGitHubProvider configures the OAuth app identified by clientID.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Endpoint:     githuboauth.Endpoint,
		},
		apiBase: github.DefaultBaseURL,
	}
}

// AuthCodeURL asks for read:user, plus repo when private repositories
// should be included in reports.
func (p *GitHubProvider) AuthCodeURL(state string, privateRepo bool) string {
	scope := scopeUser
	if privateRepo {
		scope += " " + scopePrivate
	}
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("scope", scope))
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.cfg.Exchange(ctx, code)
}

func (p *GitHubProvider) API(ctx context.Context, token *oauth2.Token) GitHubAPI {
	return github.NewClient(p.cfg.Client(ctx, token), p.apiBase)
}
