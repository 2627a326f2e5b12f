package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/prreport/internal/db"
)

// SQLiteCookieRepo implements CookieRepo using a SQLite database.
type SQLiteCookieRepo struct {
	db db.DBTX
}

// NewSQLiteCookieRepo creates a new SQLiteCookieRepo.
func NewSQLiteCookieRepo(conn db.DBTX) *SQLiteCookieRepo {
	return &SQLiteCookieRepo{db: conn}
}

// ListByHost returns the unexpired cookies stored for host.
func (r *SQLiteCookieRepo) ListByHost(ctx context.Context, host string, now time.Time) ([]StoredCookie, error) {
	query := `SELECT host, name, path, value, expires_at, secure, http_only
		FROM cookies
		WHERE host = ? AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY name, path`
	rows, err := r.db.QueryContext(ctx, query, host, formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("listing cookies for %s: %w", host, err)
	}
	defer rows.Close()

	var cookies []StoredCookie
	for rows.Next() {
		var c StoredCookie
		var expires sql.NullString
		var secure, httpOnly int
		if err := rows.Scan(&c.Host, &c.Name, &c.Path, &c.Value, &expires, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("scanning cookie: %w", err)
		}
		c.ExpiresAt = parseNullableTime(expires, time.RFC3339)
		c.Secure = secure != 0
		c.HTTPOnly = httpOnly != 0
		cookies = append(cookies, c)
	}
	return cookies, rows.Err()
}

func (r *SQLiteCookieRepo) Upsert(ctx context.Context, c StoredCookie) error {
	path := c.Path
	if path == "" {
		path = "/"
	}
	query := `INSERT INTO cookies (host, name, path, value, expires_at, secure, http_only)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(host, name, path) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			secure = excluded.secure,
			http_only = excluded.http_only`
	_, err := r.db.ExecContext(ctx, query,
		c.Host, c.Name, path, c.Value,
		nullableTimeToString(c.ExpiresAt, time.RFC3339),
		boolToInt(c.Secure), boolToInt(c.HTTPOnly),
	)
	if err != nil {
		return fmt.Errorf("upserting cookie %s: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteCookieRepo) Delete(ctx context.Context, host, name, path string) error {
	if path == "" {
		path = "/"
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?`, host, name, path)
	if err != nil {
		return fmt.Errorf("deleting cookie %s: %w", name, err)
	}
	return nil
}

func (r *SQLiteCookieRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE expires_at IS NOT NULL AND expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("deleting expired cookies: %w", err)
	}
	return res.RowsAffected()
}
