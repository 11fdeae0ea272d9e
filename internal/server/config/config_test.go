package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8081", cfg.EndpointAddr)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionValidityDuration)
	assert.Equal(t, 10, cfg.MaxAPIKeys)
	assert.Equal(t, "*", cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.SessionStoreURL)
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr":             ":9090",
		"database_dsn":              "postgres://localhost/identity",
		"session_store_url":         "redis://localhost:6379/0",
		"secret_key":                "json-secret",
		"session_validity_duration": "720h",
		"max_api_keys":              5,
		"cors_allowed_origins":      "https://app.example.com",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9090", cfg.EndpointAddr)
		assert.Equal(t, "postgres://localhost/identity", cfg.DatabaseDSN)
		assert.Equal(t, "redis://localhost:6379/0", cfg.SessionStoreURL)
		assert.Equal(t, "json-secret", cfg.SecretKey)
		assert.Equal(t, 720*time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, 5, cfg.MaxAPIKeys)
		assert.Equal(t, "https://app.example.com", cfg.CORSAllowedOrigins)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddr: ":8081", SecretKey: "keep"}
		parseJson(cfg)

		assert.Equal(t, ":8081", cfg.EndpointAddr)
		assert.Equal(t, "keep", cfg.SecretKey)
	})
}

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":7000",
		"-d", "postgres://flags/identity",
		"-s", "flag-secret",
		"-t", "60",
		"-k", "3",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7000", cfg.EndpointAddr)
	assert.Equal(t, "postgres://flags/identity", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, time.Hour, cfg.SessionValidityDuration)
	assert.Equal(t, 3, cfg.MaxAPIKeys)
}
