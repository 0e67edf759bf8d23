package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvModel, "")
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "phi-3-mini-128k", cfg.Model)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.Equal(t, 200, cfg.TestMaxTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
base_url = "http://10.0.0.5:9000"
model = "tiny"
max_tokens = 64
timeout = "45s"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.BaseURL)
	assert.Equal(t, "tiny", cfg.Model)
	assert.Equal(t, 64, cfg.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.Timeout.Duration)
	// Untouched keys keep their defaults
	assert.Equal(t, DefaultAPIKey, cfg.APIKey)
	assert.Equal(t, DefaultTestMaxTokens, cfg.TestMaxTokens)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_url = "http://file:1"`), 0o600))

	t.Setenv(EnvBaseURL, "http://env:2")
	t.Setenv(EnvAPIKey, "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestLoad_BadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("base_url = "), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"non http scheme", func(c *Config) { c.BaseURL = "ftp://host" }},
		{"missing host", func(c *Config) { c.BaseURL = "http://" }},
		{"empty model", func(c *Config) { c.Model = "  " }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"zero test max tokens", func(c *Config) { c.TestMaxTokens = 0 }},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }},
		{"negative timeout", func(c *Config) { c.Timeout.Duration = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Model = "other"
	cfg.Timeout.Duration = time.Minute

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other", loaded.Model)
	assert.Equal(t, time.Minute, loaded.Timeout.Duration)
}
