// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvStore       = "RESUME_ASSISTANT_STORE"
	EnvSQLitePath  = "RESUME_ASSISTANT_SQLITE_PATH"
	EnvNamespace   = "RESUME_ASSISTANT_NAMESPACE"
)

// Duration is a time.Duration that reads either a Go duration string
// ("90s", "168h") or a number of milliseconds from JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("duration must be a string or milliseconds: %s", string(b))
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment
// variables or CLI flags.
type Config struct {
	// Storage
	Store       string `json:"store,omitempty"`        // sqlite, postgres or memory
	SQLitePath  string `json:"sqlite_path,omitempty"`  // Path of the local database file
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Namespace   string `json:"namespace,omitempty"`    // Session id; scopes every stored record

	// Generator
	APIKey            string   `json:"api_key,omitempty"`            // Gemini API key
	Model             string   `json:"model,omitempty"`              // Overrides every model tier
	Language          string   `json:"language,omitempty"`           // fr or en
	GenerationTimeout Duration `json:"generation_timeout,omitempty"` // Bound on one generator call

	// Lifecycle
	TrashTTL Duration `json:"trash_ttl,omitempty"` // Age after which trashed applications are purged
	Autosave *bool    `json:"autosave,omitempty"`  // Mirror the workspace to the draft record

	// Server
	ListenAddr string `json:"listen_addr,omitempty"`

	// Logging
	Verbose   bool   `json:"verbose,omitempty"`
	LogFormat string `json:"log_format,omitempty"` // text or json
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	autosave := true
	return Config{
		Store:             store.BackendSQLite,
		SQLitePath:        "resume-assistant.db",
		Language:          string(types.LanguageFrench),
		GenerationTimeout: Duration(2 * time.Minute),
		TrashTTL:          Duration(7 * 24 * time.Hour),
		Autosave:          &autosave,
		ListenAddr:        "127.0.0.1:8080",
		LogFormat:         "text",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Store {
	case "", store.BackendSQLite, store.BackendPostgres, store.BackendMemory:
	default:
		return fmt.Errorf("config error: 'store' must be one of sqlite, postgres, memory (got %q)", c.Store)
	}
	if c.Store == store.BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required for the postgres store")
	}
	if _, ok := types.ParseLanguage(c.Language); !ok {
		return fmt.Errorf("config error: 'language' must be fr or en (got %q)", c.Language)
	}
	if c.GenerationTimeout < 0 {
		return fmt.Errorf("config error: 'generation_timeout' must be non-negative")
	}
	if c.TrashTTL < 0 {
		return fmt.Errorf("config error: 'trash_ttl' must be non-negative")
	}
	if strings.Contains(c.Namespace, "/") {
		return fmt.Errorf("config error: 'namespace' must not contain '/'")
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json (got %q)", c.LogFormat)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Namespace == "" {
		result.Namespace = defaults.Namespace
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	if result.GenerationTimeout == 0 {
		result.GenerationTimeout = defaults.GenerationTimeout
	}
	if result.TrashTTL == 0 {
		result.TrashTTL = defaults.TrashTTL
	}
	if result.Autosave == nil {
		result.Autosave = defaults.Autosave
	}

	// Verbose cannot distinguish unset from false, so it is not merged
	// (CLI flags always win for bools)

	return result
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		c.DatabaseURL = v
	}
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store = v
	}
	if v, ok := lookup(EnvSQLitePath); ok && v != "" {
		c.SQLitePath = v
	}
	if v, ok := lookup(EnvNamespace); ok && v != "" {
		c.Namespace = v
	}
}

// AutosaveEnabled reports whether draft mirroring is on. Unset means on.
func (c *Config) AutosaveEnabled() bool {
	return c.Autosave == nil || *c.Autosave
}

// StoreOptions converts the storage fields for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.Store,
		SQLitePath:  c.SQLitePath,
		DatabaseURL: c.DatabaseURL,
	}
}

// OutputLanguage returns the parsed language, French when unset.
func (c *Config) OutputLanguage() types.Language {
	lang, ok := types.ParseLanguage(c.Language)
	if !ok {
		return types.LanguageFrench
	}
	return lang
}

// String renders the configuration with the API key masked.
func (c Config) String() string {
	masked := c
	if masked.APIKey != "" {
		masked.APIKey = "****"
	}
	if masked.DatabaseURL != "" {
		masked.DatabaseURL = "****"
	}
	data, err := json.Marshal(masked)
	if err != nil {
		return fmt.Sprintf("config(%v)", err)
	}
	return string(data)
}
