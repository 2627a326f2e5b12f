package domain

// Identity is the signed-in user as reported by the server.
type Identity struct {
	DisplayName string
	AvatarURL   string
	LoginHandle string
}

// NewIdentity builds an Identity from the server payload fields.
// The display name falls back to the login handle when the profile has no name.
func NewIdentity(name, login, avatarURL string) Identity {
	display := name
	if display == "" {
		display = login
	}
	return Identity{
		DisplayName: display,
		AvatarURL:   avatarURL,
		LoginHandle: login,
	}
}
