package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig holds all configuration for the prreport client.
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url"`
	FrontendURL    string        `yaml:"frontend_url"`
	DataDir        string        `yaml:"data_dir"`
	DBPath         string        `yaml:"db_path"`
	LogPath        string        `yaml:"log_path"`
	LogLevel       string        `yaml:"log_level"`
	DefaultTheme   string        `yaml:"default_theme"`
	TimeoutMs      int           `yaml:"timeout_ms"`
	LoginTimeoutMs int           `yaml:"login_timeout_ms"`
	Browser        BrowserConfig `yaml:"browser"`
}

// BrowserConfig controls the browser used for sign-in.
type BrowserConfig struct {
	Headless bool   `yaml:"headless"`
	Bin      string `yaml:"bin"`
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
// dataDir is used for the database and log file when set.
func DefaultClientConfig(dataDir string) ClientConfig {
	return ClientConfig{
		BaseURL:        "http://localhost:7733",
		FrontendURL:    "http://localhost:7734",
		DataDir:        dataDir,
		DBPath:         filepath.Join(dataDir, "prreport.db"),
		LogPath:        filepath.Join(dataDir, "prreport.log"),
		LogLevel:       "info",
		DefaultTheme:   "dark",
		TimeoutMs:      30000,
		LoginTimeoutMs: 300000,
	}
}

// LoadClient reads client configuration: defaults, then the YAML file at
// $PRREPORT_CONFIG or <dataDir>/config.yaml when present, then environment
// variables. Invalid numeric or boolean values are ignored.
func LoadClient() (ClientConfig, error) {
	dataDir := os.Getenv("PRREPORT_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ClientConfig{}, fmt.Errorf("finding home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".prreport")
	}
	cfg := DefaultClientConfig(dataDir)

	path := os.Getenv("PRREPORT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dataDir, "config.yaml")
	}
	if err := loadYAML(path, &cfg); err != nil {
		if explicit || !os.IsNotExist(err) {
			return ClientConfig{}, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	applyClientEnv(&cfg)
	return cfg, nil
}

func loadYAML(path string, cfg *ClientConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyClientEnv(cfg *ClientConfig) {
	if v := os.Getenv("PRREPORT_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PRREPORT_FRONTEND_URL"); v != "" {
		cfg.FrontendURL = v
	}
	if v := os.Getenv("PRREPORT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PRREPORT_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("PRREPORT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PRREPORT_THEME"); v != "" {
		cfg.DefaultTheme = v
	}
	applyPositiveInt(&cfg.TimeoutMs, "PRREPORT_TIMEOUT_MS")
	applyPositiveInt(&cfg.LoginTimeoutMs, "PRREPORT_LOGIN_TIMEOUT_MS")
	if v := os.Getenv("PRREPORT_BROWSER_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Browser.Headless = b
		}
	}
	if v := os.Getenv("PRREPORT_BROWSER_BIN"); v != "" {
		cfg.Browser.Bin = v
	}
}

// Timeout returns the per-request timeout.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// LoginTimeout returns how long sign-in may wait for the browser hand-off.
func (c ClientConfig) LoginTimeout() time.Duration {
	return time.Duration(c.LoginTimeoutMs) * time.Millisecond
}

func applyPositiveInt(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = n
}
