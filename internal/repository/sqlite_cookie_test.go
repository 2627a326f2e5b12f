package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/prreport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieRepo_UpsertAndList(t *testing.T) {
	repo := NewSQLiteCookieRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	require.NoError(t, repo.Upsert(ctx, StoredCookie{Host: "localhost:7733", Name: "session_id", Value: "a", ExpiresAt: &later, HTTPOnly: true}))
	require.NoError(t, repo.Upsert(ctx, StoredCookie{Host: "localhost:7733", Name: "session_id", Value: "b", ExpiresAt: &later, HTTPOnly: true}))
	require.NoError(t, repo.Upsert(ctx, StoredCookie{Host: "other:1", Name: "x", Value: "y"}))

	got, err := repo.ListByHost(ctx, "localhost:7733", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Value)
	assert.Equal(t, "/", got[0].Path)
	assert.True(t, got[0].HTTPOnly)
	require.NotNil(t, got[0].ExpiresAt)
	assert.True(t, got[0].ExpiresAt.Equal(later))
}

func TestCookieRepo_ExpiredCookiesAreHiddenAndPurged(t *testing.T) {
	repo := NewSQLiteCookieRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	require.NoError(t, repo.Upsert(ctx, StoredCookie{Host: "h", Name: "old", Value: "v", ExpiresAt: &past}))
	require.NoError(t, repo.Upsert(ctx, StoredCookie{Host: "h", Name: "session", Value: "v"}))

	got, err := repo.ListByHost(ctx, "h", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "session", got[0].Name)
	assert.Nil(t, got[0].ExpiresAt)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCookieRepo_Delete(t *testing.T) {
	repo := NewSQLiteCookieRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, StoredCookie{Host: "h", Name: "session_id", Value: "v"}))
	require.NoError(t, repo.Delete(ctx, "h", "session_id", ""))

	got, err := repo.ListByHost(ctx, "h", time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
}
