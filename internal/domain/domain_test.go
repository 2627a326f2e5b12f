package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity_FallsBackToLogin(t *testing.T) {
	id := NewIdentity("", "octocat", "https://avatars.example/1")
	assert.Equal(t, "octocat", id.DisplayName)
	assert.Equal(t, "octocat", id.LoginHandle)
	assert.Equal(t, "https://avatars.example/1", id.AvatarURL)

	id = NewIdentity("The Octocat", "octocat", "")
	assert.Equal(t, "The Octocat", id.DisplayName)
}

func TestSessionLabel(t *testing.T) {
	assert.Equal(t, "unknown", SessionLabel(SessionUnknown{}))
	assert.Equal(t, "anonymous", SessionLabel(SessionAnonymous{}))
	assert.Equal(t, "authenticated", SessionLabel(SessionAuthenticated{Identity: Identity{LoginHandle: "x"}}))
	assert.Equal(t, "invalid", SessionLabel(nil))
}

func TestReportLabel(t *testing.T) {
	assert.Equal(t, "idle", ReportLabel(ReportIdle{}))
	assert.Equal(t, "pending", ReportLabel(ReportPending{RequestID: 1}))
	assert.Equal(t, "succeeded", ReportLabel(ReportSucceeded{}))
	assert.Equal(t, "failed", ReportLabel(ReportFailed{}))
}

func TestThemePreference_ParseAndCycle(t *testing.T) {
	p, ok := ParseThemePreference("dark")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, p)

	_, ok = ParseThemePreference("sepia")
	assert.False(t, ok)

	assert.Equal(t, ThemeDark, ThemeLight.Next())
	assert.Equal(t, ThemeSystem, ThemeDark.Next())
	assert.Equal(t, ThemeLight, ThemeSystem.Next())
}
