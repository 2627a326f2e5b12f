package domain

import "time"

// ServerSession is a signed-in browser session tracked by prreport-server.
// Token holds the provider's OAuth token as opaque JSON.
type ServerSession struct {
	ID        string
	User      GitHubUser
	Token     []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *ServerSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// GitHubUser is the subset of the GitHub user profile the server keeps.
type GitHubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
