package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/prreport/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// StoredCookie is a cookie persisted for one host.
type StoredCookie struct {
	Host      string
	Name      string
	Path      string
	Value     string
	ExpiresAt *time.Time // nil for session cookies
	Secure    bool
	HTTPOnly  bool
}

type PreferenceRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type CookieRepo interface {
	ListByHost(ctx context.Context, host string, now time.Time) ([]StoredCookie, error)
	Upsert(ctx context.Context, c StoredCookie) error
	Delete(ctx context.Context, host, name, path string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.ServerSession) error
	Get(ctx context.Context, id string, now time.Time) (*domain.ServerSession, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
