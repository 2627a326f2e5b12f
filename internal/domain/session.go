package domain

// SessionState is the resolved identity of the current page load.
// Exactly one of SessionUnknown, SessionAnonymous or SessionAuthenticated.
// Consumers switch over the concrete type; there is no nil identity.
type SessionState interface {
	sessionState()
}

// SessionUnknown is the initial state while the bootstrap query is in flight.
type SessionUnknown struct{}

// SessionAnonymous means no session could be confirmed.
type SessionAnonymous struct{}

// SessionAuthenticated carries the identity for the lifetime of the
// authenticated view.
type SessionAuthenticated struct {
	Identity Identity
}

func (SessionUnknown) sessionState()       {}
func (SessionAnonymous) sessionState()     {}
func (SessionAuthenticated) sessionState() {}

// SessionLabel returns a short name for logging.
func SessionLabel(s SessionState) string {
	switch s.(type) {
	case SessionUnknown:
		return "unknown"
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}
