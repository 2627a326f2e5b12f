package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds configuration for prreport-server.
type ServerConfig struct {
	Port               string
	FrontendURL        string
	CallbackHost       string
	AllowedOrigin      string
	GitHubClientID     string
	GitHubClientSecret string
	DBPath             string
	SessionTTL         time.Duration
	LogLevel           string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:        "7733",
		FrontendURL: "http://localhost:7734",
		DBPath:      "prreport-server.db",
		SessionTTL:  24 * time.Hour,
		LogLevel:    "info",
	}
}

// LoadServer loads a .env file when one exists and then reads the environment.
func LoadServer() ServerConfig {
	cfg := DefaultServerConfig()
	cfg.EnvFileLoaded = godotenv.Load() == nil

	if v := os.Getenv("API_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		cfg.FrontendURL = v
	}
	cfg.CallbackHost = "http://localhost:" + cfg.Port
	if v := os.Getenv("CALLBACK_HOST"); v != "" {
		cfg.CallbackHost = v
	}
	cfg.AllowedOrigin = cfg.FrontendURL
	if v := os.Getenv("ALLOWED_ORIGIN"); v != "" {
		cfg.AllowedOrigin = v
	}
	cfg.GitHubClientID = os.Getenv("GITHUB_CLIENT_ID")
	cfg.GitHubClientSecret = os.Getenv("GITHUB_CLIENT_SECRET")
	if v := os.Getenv("PRREPORT_SERVER_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTL = time.Duration(n) * time.Hour
		}
	}
	if v := os.Getenv("PRREPORT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

// CallbackURL is the OAuth redirect target registered with GitHub.
func (c ServerConfig) CallbackURL() string {
	return c.CallbackHost + "/auth/github/callback"
}
