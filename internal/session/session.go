// Package session resolves and ends the server-held session.
//
// A Bootstrapper represents one page load: it asks the server who the
// current user is at most once. Ending the session hands back a fresh
// Bootstrapper, which is how the client re-enters SessionUnknown.
package session

import (
	"context"
	"sync"

	"github.com/alexanderramin/prreport/internal/domain"
	"go.uber.org/zap"
)

// IdentitySource answers the identity query for the ambient session.
type IdentitySource interface {
	Me(ctx context.Context) (domain.Identity, error)
}

// Ender tears down the server-side session.
type Ender interface {
	Logout(ctx context.Context) error
}

// Bootstrapper resolves SessionState once.
type Bootstrapper struct {
	src IdentitySource
	log *zap.Logger

	once  sync.Once
	state domain.SessionState
}

// NewBootstrapper creates a Bootstrapper for one page load.
func NewBootstrapper(src IdentitySource, log *zap.Logger) *Bootstrapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bootstrapper{src: src, log: log}
}

// Bootstrap queries the server on the first call and returns the cached
// result afterwards. Every failure resolves to SessionAnonymous.
func (b *Bootstrapper) Bootstrap(ctx context.Context) domain.SessionState {
	b.once.Do(func() {
		id, err := b.src.Me(ctx)
		if err != nil {
			b.log.Debug("bootstrap resolved anonymous", zap.Error(err))
			b.state = domain.SessionAnonymous{}
			return
		}
		b.log.Info("bootstrap resolved authenticated", zap.String("login", id.LoginHandle))
		b.state = domain.SessionAuthenticated{Identity: id}
	})
	return b.state
}
