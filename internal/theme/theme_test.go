package theme

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/repository"
	"github.com/alexanderramin/prreport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	repository.PreferenceRepo
	gets int
}

func (r *countingRepo) Get(ctx context.Context, key string) (string, error) {
	r.gets++
	return r.PreferenceRepo.Get(ctx, key)
}

type brokenRepo struct{}

func (brokenRepo) Get(context.Context, string) (string, error) { return "", errors.New("disk gone") }
func (brokenRepo) Set(context.Context, string, string) error   { return errors.New("disk gone") }

func newRepo(t *testing.T) repository.PreferenceRepo {
	t.Helper()
	return repository.NewSQLitePreferenceRepo(testutil.NewTestDB(t))
}

func TestStore_DefaultsToFallback(t *testing.T) {
	s := NewStore(newRepo(t), domain.ThemeDark, nil)
	assert.Equal(t, domain.ThemeDark, s.Load(context.Background()))

	s = NewStore(newRepo(t), "neon", nil)
	assert.Equal(t, domain.ThemeDark, s.Load(context.Background()))
}

func TestStore_ReadsOnce(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{PreferenceRepo: newRepo(t)}
	require.NoError(t, repo.Set(ctx, PreferenceKey, "light"))

	s := NewStore(repo, domain.ThemeDark, nil)
	assert.Equal(t, domain.ThemeLight, s.Load(ctx))

	require.NoError(t, repo.PreferenceRepo.Set(ctx, PreferenceKey, "system"))
	assert.Equal(t, domain.ThemeLight, s.Load(ctx))
	assert.Equal(t, 1, repo.gets)
}

func TestStore_SetWritesThrough(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s := NewStore(repo, domain.ThemeDark, nil)

	require.NoError(t, s.Set(ctx, domain.ThemeSystem))
	assert.Equal(t, domain.ThemeSystem, s.Load(ctx))

	raw, err := repo.Get(ctx, PreferenceKey)
	require.NoError(t, err)
	assert.Equal(t, "system", raw)

	// A new process sees the stored value.
	assert.Equal(t, domain.ThemeSystem, NewStore(repo, domain.ThemeLight, nil).Load(ctx))
}

func TestStore_SetRejectsUnknown(t *testing.T) {
	s := NewStore(newRepo(t), domain.ThemeDark, nil)
	err := s.Set(context.Background(), "neon")
	assert.ErrorContains(t, err, "unknown theme")
	assert.Equal(t, domain.ThemeDark, s.Load(context.Background()))
}

func TestStore_UnknownStoredValueIgnored(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.Set(ctx, PreferenceKey, "sepia"))

	assert.Equal(t, domain.ThemeLight, NewStore(repo, domain.ThemeLight, nil).Load(ctx))
}

func TestStore_BrokenStorage(t *testing.T) {
	ctx := context.Background()
	s := NewStore(brokenRepo{}, domain.ThemeLight, nil)

	assert.Equal(t, domain.ThemeLight, s.Load(ctx))
	assert.Error(t, s.Set(ctx, domain.ThemeDark))
	assert.Equal(t, domain.ThemeLight, s.Load(ctx), "failed write keeps the previous preference")
}

func TestStore_Cycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newRepo(t), domain.ThemeLight, nil)

	var seen []domain.ThemePreference
	for range 3 {
		p, err := s.Cycle(ctx)
		require.NoError(t, err)
		seen = append(seen, p)
	}
	assert.Equal(t, []domain.ThemePreference{domain.ThemeDark, domain.ThemeSystem, domain.ThemeLight}, seen)
}

func TestResolve(t *testing.T) {
	dark := func() bool { return true }
	light := func() bool { return false }
	calls := 0
	counting := func() bool { calls++; return true }

	assert.Equal(t, domain.ModeLight, Resolve(domain.ThemeLight, dark))
	assert.Equal(t, domain.ModeDark, Resolve(domain.ThemeDark, light))
	assert.Equal(t, domain.ModeDark, Resolve(domain.ThemeSystem, dark))
	assert.Equal(t, domain.ModeLight, Resolve(domain.ThemeSystem, light))
	assert.Equal(t, domain.ModeLight, Resolve(domain.ThemeSystem, nil))

	Resolve(domain.ThemeDark, counting)
	Resolve(domain.ThemeLight, counting)
	assert.Zero(t, calls, "system preference is only consulted for ThemeSystem")
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("## [Fix login](https://github.com/o/r/pull/1)\n- `abc1234`: Fixed bug #12\n", domain.ModeDark, 80)
	assert.Contains(t, out, "login")
	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, "Fixed")
	assert.NotEqual(t, strings.TrimSpace(out), "")
}

func TestMarkdownStyle(t *testing.T) {
	assert.Equal(t, "light", MarkdownStyle(domain.ModeLight))
	assert.Equal(t, "dark", MarkdownStyle(domain.ModeDark))
}
