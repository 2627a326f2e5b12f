package api

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/alexanderramin/prreport/internal/db"
	"github.com/alexanderramin/prreport/internal/repository"
	"go.uber.org/zap"
)

// PersistentJar is an http.CookieJar whose cookies survive restarts, the way
// a browser keeps its cookie store. Cookies for a host are loaded from SQLite
// the first time that host is used and every Set-Cookie is written back.
type PersistentJar struct {
	inner *cookiejar.Jar
	conn  db.DBTX
	uow   db.UnitOfWork
	log   *zap.Logger
	now   func() time.Time

	mu     sync.Mutex
	loaded map[string]bool
}

// NewPersistentJar creates a jar that reads through conn and writes through uow.
func NewPersistentJar(conn db.DBTX, uow db.UnitOfWork, log *zap.Logger) (*PersistentJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PersistentJar{
		inner:  inner,
		conn:   conn,
		uow:    uow,
		log:    log,
		now:    time.Now,
		loaded: make(map[string]bool),
	}, nil
}

// Cookies implements http.CookieJar.
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.ensureLoaded(u)
	return j.inner.Cookies(u)
}

// SetCookies implements http.CookieJar. Cookies that arrive already expired
// delete the stored copy.
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.ensureLoaded(u)
	j.inner.SetCookies(u, cookies)

	if err := j.persist(context.Background(), u.Hostname(), cookies); err != nil {
		j.log.Warn("persisting cookies failed", zap.String("host", u.Hostname()), zap.Error(err))
	}
}

func (j *PersistentJar) persist(ctx context.Context, host string, cookies []*http.Cookie) error {
	now := j.now()
	return j.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCookieRepo(tx)
		for _, c := range cookies {
			path := c.Path
			if path == "" {
				path = "/"
			}
			expires, expired := cookieExpiry(c, now)
			if expired {
				if err := repo.Delete(ctx, host, c.Name, path); err != nil {
					return err
				}
				continue
			}
			err := repo.Upsert(ctx, repository.StoredCookie{
				Host:      host,
				Name:      c.Name,
				Path:      path,
				Value:     c.Value,
				ExpiresAt: expires,
				Secure:    c.Secure,
				HTTPOnly:  c.HttpOnly,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// cookieExpiry resolves MaxAge/Expires into an absolute expiry.
// A nil expiry means a session cookie.
func cookieExpiry(c *http.Cookie, now time.Time) (*time.Time, bool) {
	switch {
	case c.MaxAge < 0:
		return nil, true
	case c.MaxAge > 0:
		t := now.Add(time.Duration(c.MaxAge) * time.Second)
		return &t, false
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return nil, true
		}
		t := c.Expires
		return &t, false
	default:
		return nil, false
	}
}

// Prune deletes stored cookies that have expired.
func (j *PersistentJar) Prune(ctx context.Context) (int64, error) {
	return repository.NewSQLiteCookieRepo(j.conn).DeleteExpired(ctx, j.now())
}

func (j *PersistentJar) ensureLoaded(u *url.URL) {
	host := u.Hostname()
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.loaded[host] {
		return
	}
	j.loaded[host] = true

	stored, err := repository.NewSQLiteCookieRepo(j.conn).ListByHost(context.Background(), host, j.now())
	if err != nil {
		j.log.Warn("loading cookies failed", zap.String("host", host), zap.Error(err))
		return
	}
	if len(stored) == 0 {
		return
	}

	byPath := make(map[string][]*http.Cookie)
	for _, s := range stored {
		c := &http.Cookie{
			Name:     s.Name,
			Value:    s.Value,
			Path:     s.Path,
			Secure:   s.Secure,
			HttpOnly: s.HTTPOnly,
		}
		if s.ExpiresAt != nil {
			c.Expires = *s.ExpiresAt
		}
		byPath[s.Path] = append(byPath[s.Path], c)
	}
	for path, cookies := range byPath {
		scheme := u.Scheme
		if scheme == "" {
			scheme = "http"
		}
		j.inner.SetCookies(&url.URL{Scheme: scheme, Host: u.Host, Path: path}, cookies)
	}
	j.log.Debug("loaded cookies", zap.String("host", host), zap.Int("count", len(stored)))
}
