// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/jeranaias/recochat/internal/logging"
	"github.com/jeranaias/recochat/internal/util"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RECOCHAT_"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete recochat configuration.
type Config struct {
	Backend BackendConfig `toml:"backend" envPrefix:"BACKEND_"`
	UI      UIConfig      `toml:"ui" envPrefix:"UI_"`
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	Journal JournalConfig `toml:"journal" envPrefix:"JOURNAL_"`
}

// BackendConfig contains chat backend settings.
type BackendConfig struct {
	// URL is the backend base URL.
	URL string `toml:"url" env:"URL"`
	// RequestTimeoutSecs bounds each chat, feedback and stats call.
	RequestTimeoutSecs int `toml:"request_timeout_secs" env:"REQUEST_TIMEOUT_SECS"`
	// UnloadTimeoutSecs bounds the reset sent on exit (0 skips it).
	UnloadTimeoutSecs int `toml:"unload_timeout_secs" env:"UNLOAD_TIMEOUT_SECS"`
	// RateLimit caps requests per second (0 = unlimited).
	RateLimit float64 `toml:"rate_limit" env:"RATE_LIMIT"`
	// RateBurst is the limiter bucket size.
	RateBurst int `toml:"rate_burst" env:"RATE_BURST"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// StartPath is the route shown at startup ("/" or "/dashboard").
	StartPath string `toml:"start_path" env:"START_PATH"`
	// Markdown renders assistant replies through glamour.
	Markdown bool `toml:"markdown" env:"MARKDOWN"`
	// ShowTimestamps prints the creation time above each bubble.
	ShowTimestamps bool `toml:"show_timestamps" env:"SHOW_TIMESTAMPS"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	File  string `toml:"file" env:"FILE"`
}

// JournalConfig contains the local event journal settings.
type JournalConfig struct {
	Enabled bool   `toml:"enabled" env:"ENABLED"`
	Path    string `toml:"path" env:"PATH"`
}

// RequestTimeout returns the per-request timeout.
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSecs) * time.Second
}

// UnloadTimeout returns the exit reset deadline.
func (b BackendConfig) UnloadTimeout() time.Duration {
	return time.Duration(b.UnloadTimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:                "http://127.0.0.1:8000",
			RequestTimeoutSecs: 30,
			UnloadTimeoutSecs:  2,
			RateLimit:          0,
			RateBurst:          1,
		},
		UI: UIConfig{
			StartPath:      "/",
			Markdown:       true,
			ShowTimestamps: false,
		},
		Log: LogConfig{
			Level: "info",
		},
		Journal: JournalConfig{
			Enabled: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the recochat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".recochat"), nil
}

// DefaultPath returns the path to the TOML config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the TOML file, .env files and
// RECOCHAT_* environment variables, in that order of increasing precedence.
//
// An empty path means the default location, which may be absent. An explicit
// path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	path = expandHome(path)

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv loads each .env file that exists into the process environment.
// Variables already set are not overwritten, so the real environment wins.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(expandHome(p)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// DotEnvPaths returns the .env locations checked at startup: the working
// directory, then the config directory.
func DotEnvPaths() []string {
	paths := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	return paths
}

// ApplyEnv applies RECOCHAT_* environment variables. Unset variables leave
// the current value untouched.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Overrides are command-line values applied after every other source.
// Empty fields are ignored.
type Overrides struct {
	BackendURL string
	StartPath  string
	LogLevel   string
}

// ApplyOverrides applies command-line flags and re-validates.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.BackendURL != "" {
		c.Backend.URL = o.BackendURL
	}
	if o.StartPath != "" {
		c.UI.StartPath = o.StartPath
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	return c.Validate()
}

// SetDefaults fills zero-value fields that have no meaningful zero.
func (c *Config) SetDefaults() {
	d := Default()
	if strings.TrimSpace(c.Backend.URL) == "" {
		c.Backend.URL = d.Backend.URL
	}
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	if c.Backend.RequestTimeoutSecs == 0 {
		c.Backend.RequestTimeoutSecs = d.Backend.RequestTimeoutSecs
	}
	if c.Backend.RateBurst == 0 {
		c.Backend.RateBurst = d.Backend.RateBurst
	}
	if c.UI.StartPath == "" {
		c.UI.StartPath = d.UI.StartPath
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if dir, err := ConfigDir(); err == nil {
		if c.Log.File == "" {
			c.Log.File = filepath.Join(dir, "recochat.log")
		}
		if c.Journal.Path == "" {
			c.Journal.Path = filepath.Join(dir, "journal.db")
		}
	}
	c.Log.File = expandHome(c.Log.File)
	c.Journal.Path = expandHome(c.Journal.Path)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration as TOML with owner-only permissions.
func Save(cfg *Config, path string) error {
	path = expandHome(path)

	var buf bytes.Buffer
	buf.WriteString("# recochat configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Backend.URL)
	switch {
	case err != nil:
		errs = append(errs, ValidationError{Field: "backend.url", Message: err.Error()})
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme),
		})
	case u.Host == "":
		errs = append(errs, ValidationError{Field: "backend.url", Message: "missing host"})
	}

	if c.Backend.RequestTimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.request_timeout_secs",
			Message: fmt.Sprintf("must be positive, got %d", c.Backend.RequestTimeoutSecs),
		})
	}
	if c.Backend.UnloadTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.unload_timeout_secs",
			Message: fmt.Sprintf("must not be negative, got %d", c.Backend.UnloadTimeoutSecs),
		})
	}
	if c.Backend.RateLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.rate_limit",
			Message: fmt.Sprintf("must not be negative, got %g", c.Backend.RateLimit),
		})
	}
	if c.Backend.RateBurst < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.rate_burst",
			Message: fmt.Sprintf("must not be negative, got %d", c.Backend.RateBurst),
		})
	}

	if !strings.HasPrefix(c.UI.StartPath, "/") {
		errs = append(errs, ValidationError{
			Field:   "ui.start_path",
			Message: fmt.Sprintf("must start with '/', got '%s'", c.UI.StartPath),
		})
	}

	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level '%s'", c.Log.Level),
		})
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, ValidationError{Field: "journal.path", Message: "required when the journal is enabled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the active configuration, or defaults before SetGlobal.
// Thread-safe.
func Global() *Config {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// SetGlobal replaces the active configuration. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}
