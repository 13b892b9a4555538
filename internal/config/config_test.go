package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/tracker",
		"redis_url": "redis://localhost:6379/0",
		"use_browser": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/tracker", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.UseBrowser)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty config is valid", cfg: Config{}},
		{name: "valid port", cfg: Config{Port: 8080}},
		{name: "negative port", cfg: Config{Port: -1}, wantErr: true},
		{name: "port too large", cfg: Config{Port: 70000}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9090, APIKey: "from-file"}
	defaults := Config{
		Port:        8080,
		DatabaseURL: "postgres://localhost/tracker",
		APIKey:      "from-env",
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 9090, merged.Port, "set values win over defaults")
	assert.Equal(t, "from-file", merged.APIKey)
	assert.Equal(t, "postgres://localhost/tracker", merged.DatabaseURL, "empty values take the default")
}

func TestMergeWithDefaults_BoolsMergeByOR(t *testing.T) {
	cfg := Config{}
	merged := cfg.MergeWithDefaults(Config{UseBrowser: true, Verbose: true})
	assert.True(t, merged.UseBrowser)
	assert.True(t, merged.Verbose)
	assert.False(t, merged.JSONLogs)

	cfg = Config{JSONLogs: true}
	merged = cfg.MergeWithDefaults(Config{})
	assert.True(t, merged.JSONLogs)
}

func TestMergeWithDefaults_EnvUseBrowser(t *testing.T) {
	t.Setenv("USE_BROWSER", "true")

	cfg := Config{}
	merged := cfg.MergeWithDefaults(FromEnv())
	assert.True(t, merged.UseBrowser, "USE_BROWSER survives the merge with no config file")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/tracker")
	t.Setenv("PORT", "7070")
	t.Setenv("USE_BROWSER", "true")

	cfg := FromEnv()

	assert.Equal(t, "postgres://env/tracker", cfg.DatabaseURL)
	assert.Equal(t, 7070, cfg.Port)
	assert.True(t, cfg.UseBrowser)
}
