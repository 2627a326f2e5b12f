package session

import (
	"context"

	"go.uber.org/zap"
)

// Client is what a full session lifecycle needs from the report server.
type Client interface {
	IdentitySource
	Ender
}

// Terminator ends the session and starts a fresh page load.
type Terminator struct {
	client Client
	log    *zap.Logger
}

// NewTerminator creates a Terminator.
func NewTerminator(client Client, log *zap.Logger) *Terminator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Terminator{client: client, log: log}
}

// Terminate asks the server to end the session and returns the Bootstrapper
// for the next page load. The Bootstrapper is returned even when the logout
// call fails: the client leaves the authenticated view unconditionally and
// the next bootstrap decides what the server still thinks.
func (t *Terminator) Terminate(ctx context.Context) (*Bootstrapper, error) {
	err := t.client.Logout(ctx)
	if err != nil {
		t.log.Warn("logout failed", zap.Error(err))
	} else {
		t.log.Info("session terminated")
	}
	return NewBootstrapper(t.client, t.log), err
}
