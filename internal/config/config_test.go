package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"store": "postgres",
		"database_url": "postgres://localhost/resume",
		"namespace": "alice",
		"language": "en",
		"generation_timeout": "45s",
		"trash_ttl": 604800000,
		"autosave": false,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, store.BackendPostgres, cfg.Store)
	assert.Equal(t, "alice", cfg.Namespace)
	assert.Equal(t, types.LanguageEnglish, cfg.OutputLanguage())
	assert.Equal(t, 45*time.Second, time.Duration(cfg.GenerationTimeout))
	assert.Equal(t, 7*24*time.Hour, time.Duration(cfg.TrashTTL))
	assert.False(t, cfg.AutosaveEnabled())
	assert.True(t, cfg.Verbose)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{"generation_timeout": "soon"}`), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(tmpFile)
	assert.Error(t, err)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"empty", Config{}, ""},
		{"unknown store", Config{Store: "redis"}, "'store'"},
		{"postgres without url", Config{Store: store.BackendPostgres}, "database_url"},
		{"unknown language", Config{Language: "de"}, "language"},
		{"negative timeout", Config{GenerationTimeout: Duration(-time.Second)}, "generation_timeout"},
		{"negative ttl", Config{TrashTTL: Duration(-time.Second)}, "trash_ttl"},
		{"slash in namespace", Config{Namespace: "a/b"}, "namespace"},
		{"unknown log format", Config{LogFormat: "xml"}, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Store: store.BackendMemory, Language: "en"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, store.BackendMemory, merged.Store)
	assert.Equal(t, "en", merged.Language)
	assert.Equal(t, "resume-assistant.db", merged.SQLitePath)
	assert.Equal(t, 2*time.Minute, time.Duration(merged.GenerationTimeout))
	assert.Equal(t, 7*24*time.Hour, time.Duration(merged.TrashTTL))
	assert.True(t, merged.AutosaveEnabled())
	assert.Equal(t, "127.0.0.1:8080", merged.ListenAddr)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIKey:     "secret",
		EnvStore:      store.BackendMemory,
		EnvNamespace:  "bob",
		EnvSQLitePath: "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Defaults()
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, store.BackendMemory, cfg.Store)
	assert.Equal(t, "bob", cfg.Namespace)
	assert.Equal(t, "resume-assistant.db", cfg.SQLitePath, "empty values do not override")
}

func TestStoreOptions(t *testing.T) {
	cfg := Config{Store: store.BackendSQLite, SQLitePath: "x.db"}
	opts := cfg.StoreOptions()
	assert.Equal(t, store.BackendSQLite, opts.Backend)
	assert.Equal(t, "x.db", opts.SQLitePath)
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := Config{APIKey: "super-secret", DatabaseURL: "postgres://u:p@h/db"}
	out := cfg.String()
	assert.NotContains(t, out, "super-secret")
	assert.NotContains(t, out, "u:p@h")
}
