package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/prreport/internal/db"
	"github.com/alexanderramin/prreport/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.ServerSession) error {
	query := `INSERT INTO sessions (id, login, name, avatar_url, token_json, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.User.Login,
		s.User.Name,
		s.User.AvatarURL,
		string(s.Token),
		formatTime(s.CreatedAt),
		formatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// Get returns the session with id. Expired sessions are reported as ErrNotFound.
func (r *SQLiteSessionRepo) Get(ctx context.Context, id string, now time.Time) (*domain.ServerSession, error) {
	query := `SELECT id, login, name, avatar_url, token_json, created_at, expires_at
		FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.ServerSession
	var token, createdAt, expiresAt string
	err := row.Scan(&s.ID, &s.User.Login, &s.User.Name, &s.User.AvatarURL, &token, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	s.Token = []byte(token)
	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing session created_at: %w", err)
	}
	if s.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return nil, fmt.Errorf("parsing session expires_at: %w", err)
	}
	if s.Expired(now) {
		return nil, fmt.Errorf("session expired: %w", ErrNotFound)
	}
	return &s, nil
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}
