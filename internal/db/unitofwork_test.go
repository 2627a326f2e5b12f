package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/prreport/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPrefs(t *testing.T, uow *db.SQLiteUnitOfWork) int {
	t.Helper()
	var n int
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM preferences`).Scan(&n)
	})
	require.NoError(t, err)
	return n
}

func newUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertPref(ctx context.Context, tx db.DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO preferences (key, value, updated_at) VALUES (?, 'v', 'now')`, key)
	return err
}

func TestWithinTx_Commits(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPref(ctx, tx, "a"); err != nil {
			return err
		}
		return insertPref(ctx, tx, "b")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countPrefs(t, uow))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	uow := newUoW(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insertPref(ctx, tx, "a"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countPrefs(t, uow))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			require.NoError(t, insertPref(ctx, tx, "a"))
			panic("kaboom")
		})
	})
	assert.Equal(t, 0, countPrefs(t, uow))
}
