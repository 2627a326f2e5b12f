// Package theme manages the stored visual preference and derives the mode
// in effect from it.
package theme

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/repository"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// PreferenceKey is the preferences row holding the theme.
const PreferenceKey = "ui-theme"

// Store reads the preference once and writes it through on every change.
type Store struct {
	repo     repository.PreferenceRepo
	fallback domain.ThemePreference
	log      *zap.Logger

	loaded bool
	pref   domain.ThemePreference
}

// NewStore creates a Store. fallback is used when nothing valid is stored;
// an invalid fallback becomes ThemeDark.
func NewStore(repo repository.PreferenceRepo, fallback domain.ThemePreference, log *zap.Logger) *Store {
	if !domain.ValidThemePreferences[fallback] {
		fallback = domain.ThemeDark
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{repo: repo, fallback: fallback, log: log}
}

// Load returns the stored preference, reading storage only on the first call.
// A missing, unreadable or unknown value yields the fallback.
func (s *Store) Load(ctx context.Context) domain.ThemePreference {
	if s.loaded {
		return s.pref
	}
	s.loaded = true
	s.pref = s.fallback

	raw, err := s.repo.Get(ctx, PreferenceKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s.pref
	case err != nil:
		s.log.Warn("reading theme preference failed", zap.Error(err))
		return s.pref
	}
	if p, ok := domain.ParseThemePreference(raw); ok {
		s.pref = p
	} else {
		s.log.Warn("ignoring unknown theme preference", zap.String("value", raw))
	}
	return s.pref
}

// Set stores p and makes it the current preference.
func (s *Store) Set(ctx context.Context, p domain.ThemePreference) error {
	if !domain.ValidThemePreferences[p] {
		return fmt.Errorf("unknown theme %q: want light, dark or system", p)
	}
	if err := s.repo.Set(ctx, PreferenceKey, string(p)); err != nil {
		return fmt.Errorf("saving theme preference: %w", err)
	}
	s.loaded = true
	s.pref = p
	return nil
}

// Cycle advances to the next preference and stores it.
func (s *Store) Cycle(ctx context.Context) (domain.ThemePreference, error) {
	next := s.Load(ctx).Next()
	if err := s.Set(ctx, next); err != nil {
		return s.pref, err
	}
	return next, nil
}

// Resolve derives the mode in effect. systemDark is consulted only for
// ThemeSystem.
func Resolve(p domain.ThemePreference, systemDark func() bool) domain.ThemeMode {
	switch p {
	case domain.ThemeLight:
		return domain.ModeLight
	case domain.ThemeDark:
		return domain.ModeDark
	default:
		if systemDark != nil && systemDark() {
			return domain.ModeDark
		}
		return domain.ModeLight
	}
}

// SystemDark reports whether the terminal background is dark. lipgloss
// queries the terminal once and caches the answer for the process.
func SystemDark() bool {
	return lipgloss.HasDarkBackground()
}
